package api

import (
	"github.com/olegbb/presskit/app/content"
	"github.com/olegbb/presskit/app/database"
	"github.com/olegbb/presskit/app/rss"
	"github.com/olegbb/presskit/app/site"
	"github.com/olegbb/presskit/app/tasks"
)

type GeneratorInterface interface {
	Run(siteConfig *site.Config, posts []database.Post) (string, error)
}

var _ GeneratorInterface = (*rss.Generator)(nil)

type Handler struct {
	postRepo   database.PostRepository
	lintRepo   database.LintRepository
	library    *content.Library
	renderer   *content.Renderer
	generator  GeneratorInterface
	siteConfig *site.Config
	scheduler  tasks.TaskSchedulerInterface
}

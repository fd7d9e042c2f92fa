package content

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks a parsed post against the front-matter schema: title, date
// and url are required, the url must be a site-relative path, and every FAQ
// entry needs both a question and an answer.
func Validate(post *Post) error {
	return validation.ValidateStruct(post,
		validation.Field(&post.Title, validation.Required),
		validation.Field(&post.Date, validation.Required),
		validation.Field(&post.URL, validation.Required, validation.By(siteRelativePath)),
		validation.Field(&post.FAQ),
	)
}

func (f FAQEntry) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Question, validation.Required),
		validation.Field(&f.Answer, validation.Required),
	)
}

func siteRelativePath(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("must start with '/'")
	}
	if strings.Contains(s, "://") {
		return fmt.Errorf("must be site-relative, not absolute")
	}
	return nil
}

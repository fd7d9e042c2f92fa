package content

import (
	"testing"
)

func runLinter(t *testing.T, files map[string]string) []LintIssue {
	t.Helper()
	dir := writeCorpus(t, files)
	library := NewLibrary(dir)
	if err := library.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return NewLinter().Run(library)
}

func issuesWithCode(issues []LintIssue, code string) []LintIssue {
	var matched []LintIssue
	for _, issue := range issues {
		if issue.Code == code {
			matched = append(matched, issue)
		}
	}
	return matched
}

func TestLinterCleanCorpus(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"sanctum.md": "---\ntitle: Sanctum\ndate: 2023-01-01\ndescription: Token auth.\n---\nBody.\n",
	})

	if len(issues) != 0 {
		t.Errorf("Expected no issues, got: %v", issues)
	}
}

func TestLinterParseFailure(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"bad.md": "---\ntitle: [unclosed\n---\nBody.\n",
	})

	parseIssues := issuesWithCode(issues, LintCodeParseFailure)
	if len(parseIssues) != 1 {
		t.Fatalf("Expected 1 parse failure, got %d: %v", len(parseIssues), issues)
	}
	if parseIssues[0].Severity != LintError {
		t.Errorf("Expected error severity, got %s", parseIssues[0].Severity)
	}
	if parseIssues[0].SourceFile != "bad.md" {
		t.Errorf("Unexpected source file: %s", parseIssues[0].SourceFile)
	}
}

func TestLinterInvalidFrontMatter(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"no-title.md": "---\ndate: 2023-01-01\ndescription: Has one.\n---\nBody.\n",
	})

	fmIssues := issuesWithCode(issues, LintCodeInvalidFrontMatter)
	if len(fmIssues) == 0 {
		t.Fatalf("Expected an invalid front matter issue, got: %v", issues)
	}
	if fmIssues[0].Slug != "no-title" {
		t.Errorf("Unexpected slug: %s", fmIssues[0].Slug)
	}
}

func TestLinterIncompleteFAQ(t *testing.T) {
	body := `---
title: Sanctum
date: 2023-01-01
description: Token auth.
faq:
  - question: "What is Sanctum?"
    answer: ""
---
Body.
`
	issues := runLinter(t, map[string]string{"sanctum.md": body})

	fmIssues := issuesWithCode(issues, LintCodeInvalidFrontMatter)
	if len(fmIssues) != 1 {
		t.Fatalf("Expected 1 issue for the empty answer, got %d: %v", len(fmIssues), issues)
	}
}

func TestLinterMissingDescription(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"sanctum.md": "---\ntitle: Sanctum\ndate: 2023-01-01\n---\nBody.\n",
	})

	descIssues := issuesWithCode(issues, LintCodeMissingDescription)
	if len(descIssues) != 1 {
		t.Fatalf("Expected 1 missing description warning, got %d: %v", len(descIssues), issues)
	}
	if descIssues[0].Severity != LintWarning {
		t.Errorf("Expected warning severity, got %s", descIssues[0].Severity)
	}
}

func TestLinterBrokenRef(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"a.md": "---\ntitle: A\ndate: 2023-01-01\ndescription: x\n---\nSee {{< relref \"b.md\" >}} and {{< relref \"missing.md\" >}}.\n",
		"b.md": "---\ntitle: B\ndate: 2023-01-01\ndescription: x\n---\nBody.\n",
	})

	refIssues := issuesWithCode(issues, LintCodeBrokenRef)
	if len(refIssues) != 1 {
		t.Fatalf("Expected 1 broken ref, got %d: %v", len(refIssues), issues)
	}
	if refIssues[0].Slug != "a" {
		t.Errorf("Unexpected slug: %s", refIssues[0].Slug)
	}
}

func TestLinterDuplicateURLs(t *testing.T) {
	issues := runLinter(t, map[string]string{
		"a.md": "---\ntitle: A\ndate: 2023-01-01\ndescription: x\nurl: /shared/\n---\nBody.\n",
		"b.md": "---\ntitle: B\ndate: 2023-01-01\ndescription: x\nurl: /shared/\n---\nBody.\n",
		"c.md": "---\ntitle: C\ndate: 2023-01-01\ndescription: x\n---\nBody.\n",
	})

	dupIssues := issuesWithCode(issues, LintCodeDuplicateURL)
	if len(dupIssues) != 2 {
		t.Fatalf("Expected both colliding posts flagged, got %d: %v", len(dupIssues), issues)
	}

	flagged := map[string]bool{}
	for _, issue := range dupIssues {
		flagged[issue.Slug] = true
	}
	if !flagged["a"] || !flagged["b"] {
		t.Errorf("Expected slugs a and b flagged, got: %v", flagged)
	}
	if flagged["c"] {
		t.Error("Post with a unique url should not be flagged")
	}
}

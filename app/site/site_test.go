package site

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSiteConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write site config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSiteConfig(t, `
title: Laravel Field Notes
description: Long-form articles on deploying and operating Laravel
author: editors@example.com
language: en-us
base_url: https://blog.example.com
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Title != "Laravel Field Notes" {
		t.Errorf("Expected title 'Laravel Field Notes', got '%s'", config.Title)
	}
	if config.Description != "Long-form articles on deploying and operating Laravel" {
		t.Errorf("Unexpected description: %s", config.Description)
	}
	if config.Author != "editors@example.com" {
		t.Errorf("Unexpected author: %s", config.Author)
	}
	if config.Language != "en-us" {
		t.Errorf("Expected language 'en-us', got '%s'", config.Language)
	}
	if config.BaseUrl != "https://blog.example.com" {
		t.Errorf("Unexpected base URL: %s", config.BaseUrl)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeSiteConfig(t, "title: Minimal Site\n")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Language != "en" {
		t.Errorf("Expected default language 'en', got '%s'", config.Language)
	}
}

func TestLoadMissingTitle(t *testing.T) {
	path := writeSiteConfig(t, "description: no title here\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for missing title")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeSiteConfig(t, "title: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

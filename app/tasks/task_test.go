package tasks

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeSyncPost, "laravel-sanctum")

	if task.GetType() != TaskTypeSyncPost {
		t.Errorf("Unexpected type: %s", task.GetType())
	}
	if task.GetSlug() != "laravel-sanctum" {
		t.Errorf("Unexpected slug: %s", task.GetSlug())
	}
	if task.GetID() == "" {
		t.Error("Expected generated task id")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected zero retries, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Unexpected max retries: %d", task.GetMaxRetries())
	}
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeLintCorpus, "")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries exhausted after reaching the limit")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Unexpected retry count: %d", task.GetRetryCount())
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeSyncPost, "laravel-sanctum")

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before the task starts")
	}

	task.Start()
	time.Sleep(time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after the task starts")
	}
}

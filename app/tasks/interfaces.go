package tasks

// TaskSchedulerInterface is the surface the rest of the application uses to
// hand work to the background pool.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

package concurrent

import (
	"fmt"
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool runs jobFunc over queued jobs on numWorkers goroutines.
// a panic inside a job is re-raised from Wait on the caller goroutine.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup

	panicOnce sync.Once
	panicVal  any
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		res, ok := wp.run(jobFunc, job)
		if !ok {
			continue
		}
		wp.results <- res
	}
}

func (wp *WorkerPool[T, G]) run(jobFunc JobFunc[T, G], job T) (res G, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			wp.panicOnce.Do(func() { wp.panicVal = r })
			ok = false
		}
	}()
	return jobFunc(job), true
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker returned, then closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
	if wp.panicVal != nil {
		panic(fmt.Sprintf("worker pool job panicked: %v", wp.panicVal))
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

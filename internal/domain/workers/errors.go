package workers

import "errors"

var ErrWorkerNotFound = errors.New("worker not found")

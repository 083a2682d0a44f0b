package mq

// Temporary marks a handler error as retryable: the consumer nacks the
// delivery back onto the queue instead of dropping it.
func Temporary(err error) error {
	return requeueError{err: err}
}

type requeueError struct {
	err error
}

func (e requeueError) Error() string   { return e.err.Error() }
func (e requeueError) Unwrap() error   { return e.err }
func (e requeueError) Temporary() bool { return true }

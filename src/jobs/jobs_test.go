package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancelAndWait(t *testing.T) {
	job := New("test")
	go func() {
		<-job.Canceled()
		job.Finish()
	}()

	unfinished := Jobs{job}.CancelAndWait(time.Second)
	assert.Empty(t, unfinished)
}

func TestCancelAndWaitTimeout(t *testing.T) {
	job := New("stuck")
	// The job never finishes, so CancelAndWait must report it.
	unfinished := Jobs{job}.CancelAndWait(10 * time.Millisecond)
	assert.Equal(t, []string{"stuck"}, unfinished)
}

package tasks

import (
	"testing"

	"staybridge/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTaskRoundTrip(t *testing.T) {
	req := models.BookingRequest{
		BookHash:       "h-1",
		PartnerOrderID: "ord_task",
		Rooms:          []models.Room{{Guests: []models.Guest{{FirstName: "A", LastName: "B"}}}},
	}

	task, opts, err := NewBookingTask(req)
	require.NoError(t, err)
	assert.Equal(t, TypeBookingExecute, task.Type())

	var types []asynq.OptionType
	for _, o := range opts {
		types = append(types, o.Type())
	}
	assert.Contains(t, types, asynq.QueueOpt)
	assert.Contains(t, types, asynq.MaxRetryOpt)
	assert.Contains(t, types, asynq.TaskIDOpt)
	for _, o := range opts {
		switch o.Type() {
		case asynq.MaxRetryOpt:
			assert.Equal(t, 0, o.Value())
		case asynq.TaskIDOpt:
			assert.Equal(t, "ord_task", o.Value())
		case asynq.QueueOpt:
			assert.Equal(t, BookingQueue, o.Value())
		}
	}

	parsed, err := ParseBookingTask(task)
	require.NoError(t, err)
	assert.Equal(t, req, parsed)
}

func TestParseBookingTask_InvalidPayload(t *testing.T) {
	_, err := ParseBookingTask(asynq.NewTask(TypeBookingExecute, []byte("not json")))
	assert.Error(t, err)
}

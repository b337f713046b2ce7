package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/procurement-service/internal/domain"
	"github.com/spec-kit/procurement-service/internal/service"
	"github.com/spec-kit/procurement-service/internal/workflow"
)

func runListQuery(t *testing.T, target string) (service.TicketListFilter, error) {
	t.Helper()

	var (
		filter   service.TicketListFilter
		parseErr error
	)
	app := fiber.New()
	app.Get("/tickets", func(c *fiber.Ctx) error {
		filter, parseErr = parseTicketListQuery(c)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	return filter, parseErr
}

func TestParseTicketListQueryDefaults(t *testing.T) {
	filter, err := runListQuery(t, "/tickets")
	require.NoError(t, err)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Empty(t, filter.Statuses)
	assert.Nil(t, filter.InitiatorID)
}

func TestParseTicketListQueryFull(t *testing.T) {
	filter, err := runListQuery(t, "/tickets?status=requested,%20confirmed&page=3&page_size=10&initiator_id=u1")
	require.NoError(t, err)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
	assert.Equal(t, []domain.TicketStatus{
		domain.TicketStatusRequested,
		domain.TicketStatusConfirmed,
	}, filter.Statuses)
	require.NotNil(t, filter.InitiatorID)
	assert.Equal(t, "u1", *filter.InitiatorID)
}

func TestParseTicketListQueryUnknownStatus(t *testing.T) {
	_, err := runListQuery(t, "/tickets?status=archived")
	require.Error(t, err)
}

func TestParseTicketListQueryBadPaging(t *testing.T) {
	filter, err := runListQuery(t, "/tickets?page=-1&page_size=zero")
	require.NoError(t, err)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
}

func TestEditOpEvents(t *testing.T) {
	assert.Equal(t, workflow.EventCancel, editOpEvents["cancel"])
	assert.Equal(t, workflow.EventConfirm, editOpEvents["confirm"])
	assert.Equal(t, workflow.EventDeny, editOpEvents["deny"])
	assert.Equal(t, workflow.EventCompletePayment, editOpEvents["complete_payment"])
	_, ok := editOpEvents["edit_title"]
	assert.False(t, ok)
}

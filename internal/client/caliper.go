package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/google/uuid"
)

// CaliperClient implements timeback.CaliperService.
type CaliperClient struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewCaliperClient creates the Caliper service on a client rooted at the Caliper host.
func NewCaliperClient(httpClient *http.Client) *CaliperClient {
	return &CaliperClient{httpClient: httpClient, now: time.Now}
}

// SendEvents implements timeback.CaliperService.SendEvents.
func (c *CaliperClient) SendEvents(ctx context.Context, envelope *timeback.CaliperEnvelope) (*timeback.CaliperResult, error) {
	return c.post(ctx, constants.CaliperEventPath, envelope, "sending caliper events")
}

// ValidateEvents implements timeback.CaliperService.ValidateEvents.
func (c *CaliperClient) ValidateEvents(ctx context.Context, envelope *timeback.CaliperEnvelope) (*timeback.CaliperResult, error) {
	return c.post(ctx, constants.CaliperEventPath+"/validate", envelope, "validating caliper events")
}

// post fills the envelope's fixed fields, gives events without an id a urn:uuid and checks it before sending.
func (c *CaliperClient) post(ctx context.Context, path string, envelope *timeback.CaliperEnvelope, action string) (*timeback.CaliperResult, error) {
	if envelope == nil {
		return nil, &timeback.ValidationError{Field: "caliper envelope", Message: "is required"}
	}

	envelope.ApplyDefaults(c.now())

	for i := range envelope.Data {
		if envelope.Data[i].ID == "" {
			envelope.Data[i].ID = uuid.New().URN()
		}
	}

	err := timeback.ValidateEntity("caliper envelope", *envelope)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, path, envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	result, err := timeback.DecodeEntity[timeback.CaliperResult](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing caliper result: %w", err)
	}

	return result, nil
}

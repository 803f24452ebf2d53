package clients

import (
	"errors"
	"strings"
)

func (s *Service) validate(c Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name is required")
	}
	if c.OutboundTransportCost != nil && *c.OutboundTransportCost < 0 {
		return errors.New("outbound cost cannot be negative")
	}
	return nil
}

package domain

import (
	"net/url"

	"github.com/google/uuid"
)

// WarehouseRoute is the front-end route navigation events point at.
const WarehouseRoute = "/warehouse"

// NewNavigationEvent builds the event for drilling from scope into target.
func NewNavigationEvent(from Scope, target, stateName string) NavigationEvent {
	return NavigationEvent{
		ID:        uuid.NewString(),
		From:      from,
		Target:    target,
		StateName: stateName,
		Path:      WarehouseRoute + "?" + url.Values{"stateCode": {target}}.Encode(),
		EmittedAt: now().UTC(),
	}
}

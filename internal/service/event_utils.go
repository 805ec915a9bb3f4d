package service

import (
	"fmt"

	"github.com/hyperledger/fabric-sdk-go/pkg/client/event"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/fab"
)

// RegisterEvent registers an event using an event client.
//
// Returns:
//   the registration (used to unregister the event)
//   the event channel
func RegisterEvent(client *event.Client, chaincodeID, eventID string) (fab.Registration, <-chan *fab.CCEvent, error) {
	reg, notifier, err := client.RegisterChaincodeEvent(chaincodeID, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register chaincode event: %v", err)
	}
	return reg, notifier, nil
}

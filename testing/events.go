package ibctesting

import (
	"errors"
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	testifysuite "github.com/stretchr/testify/suite"
	abci "github.com/tendermint/tendermint/abci/types"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// ParseConsensusHeightsFromEvents parses events emitted from an update and returns
// the consensus heights that were added.
func ParseConsensusHeightsFromEvents(events sdk.Events) ([]clienttypes.Height, error) {
	ferr := func(err error) ([]clienttypes.Height, error) {
		return nil, fmt.Errorf("ibctesting.ParseConsensusHeightsFromEvents: %w", err)
	}

	for _, ev := range events {
		if ev.Type != clienttypes.EventTypeUpdateClient {
			continue
		}

		attribute, found := attributeByKey(ev.Attributes, clienttypes.AttributeKeyConsensusHeights)
		if !found {
			continue
		}

		var heights []clienttypes.Height
		for _, heightStr := range strings.Split(string(attribute.Value), ",") {
			height, err := clienttypes.ParseHeight(heightStr)
			if err != nil {
				return ferr(err)
			}
			heights = append(heights, height)
		}
		return heights, nil
	}
	return ferr(errors.New("consensus heights event attribute not found"))
}

// AssertEvents asserts that expected events are present in the actual events.
func AssertEvents(
	suite *testifysuite.Suite,
	expected sdk.Events,
	actual sdk.Events,
) {
	foundEvents := make(map[int]bool)

	for i, expectedEvent := range expected {
		for _, actualEvent := range actual {
			if shouldProcessEvent(expectedEvent, actualEvent) {
				attributeMatch := true
				for _, expectedAttr := range expectedEvent.Attributes {
					// any expected attributes that are not contained in the actual events will cause this event
					// not to match
					attributeMatch = attributeMatch && containsAttribute(actualEvent.Attributes, string(expectedAttr.Key), string(expectedAttr.Value))
				}

				if attributeMatch {
					foundEvents[i] = true
				}
			}
		}
	}

	for i, expectedEvent := range expected {
		suite.Require().True(foundEvents[i], "event: %s was not found in events", expectedEvent.Type)
	}
}

// shouldProcessEvent returns true if the given expected event should be processed based on event type.
func shouldProcessEvent(expectedEvent sdk.Event, actualEvent sdk.Event) bool {
	if expectedEvent.Type != actualEvent.Type {
		return false
	}

	return len(expectedEvent.Attributes) == len(actualEvent.Attributes)
}

// containsAttribute returns true if the given key/value pair is contained in the given attributes.
// NOTE: this ignores the indexed field, which can be set or unset depending on how the events are retrieved.
func containsAttribute(attrs []abci.EventAttribute, key, value string) bool {
	for _, attr := range attrs {
		if string(attr.Key) == key && string(attr.Value) == value {
			return true
		}
	}
	return false
}

// attributeByKey returns the event attribute's value keyed by the given key and a boolean indicating its presence in the given attributes.
func attributeByKey(attributes []abci.EventAttribute, key string) (abci.EventAttribute, bool) {
	for _, attr := range attributes {
		if string(attr.Key) == key {
			return attr, true
		}
	}
	return abci.EventAttribute{}, false
}

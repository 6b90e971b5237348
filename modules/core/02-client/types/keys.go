package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// SubModuleName defines the IBC client name
	SubModuleName string = "client"
)

// IsRevisionFormat matches chain-ids of the form {chainID}-{revision}, where
// the revision is a positive integer without leading zeros.
var IsRevisionFormat = regexp.MustCompile(`^.*[^\n-]-{1}[1-9][0-9]*$`).MatchString

// IsValidClientID checks if the clientID is valid and can be parsed into the client
// identifier format.
func IsValidClientID(clientID string) bool {
	_, _, err := ParseClientIdentifier(clientID)
	return err == nil
}

// FormatClientIdentifier returns the client identifier with the sequence appended.
func FormatClientIdentifier(clientType string, sequence uint64) string {
	return fmt.Sprintf("%s-%d", clientType, sequence)
}

// ParseClientIdentifier parses the client type and sequence from the client identifier.
func ParseClientIdentifier(clientID string) (string, uint64, error) {
	split := strings.Split(clientID, "-")
	if len(split) < 2 {
		return "", 0, fmt.Errorf("invalid client identifier %s, must be of the form {client-type}-{N}", clientID)
	}

	clientType := strings.Join(split[:len(split)-1], "-")
	if strings.TrimSpace(clientType) == "" {
		return "", 0, fmt.Errorf("client identifier %s must contain a client type", clientID)
	}

	sequence, err := strconv.ParseUint(split[len(split)-1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse client identifier sequence: %w", err)
	}

	return clientType, sequence, nil
}

// ParseChainID is a utility function that returns an revision number from the given ChainID.
// ParseChainID attempts to parse a chain id in the format: `{chainID}-{revision}`
// and return the revisionnumber as a uint64.
// If the chainID is not in the expected format, a default revision value of 0 is returned.
func ParseChainID(chainID string) uint64 {
	if !IsRevisionFormat(chainID) {
		// chainID is not in revision format, return 0 as default
		return 0
	}
	splitStr := strings.Split(chainID, "-")
	revision, err := strconv.ParseUint(splitStr[len(splitStr)-1], 10, 64)
	// sanity check: error should always be nil since regex only allows numbers in last element
	if err != nil {
		panic(fmt.Sprintf("regex allowed non-number value as last split element for chainID: %s", chainID))
	}
	return revision
}

// SetRevisionNumber takes a chainID in valid revision format and swaps the revision number
// in the chainID with the given revision number.
func SetRevisionNumber(chainID string, revision uint64) (string, error) {
	if !IsRevisionFormat(chainID) {
		return "", fmt.Errorf("chainID is not in revision format: %s", chainID)
	}

	splitStr := strings.Split(chainID, "-")
	// swap out revision number with given revision
	splitStr[len(splitStr)-1] = strconv.FormatUint(revision, 10)
	return strings.Join(splitStr, "-"), nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

type outputAttribute struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type outputEvent struct {
	Type       string            `json:"type" yaml:"type"`
	Attributes []outputAttribute `json:"attributes" yaml:"attributes"`
}

type outputResponse struct {
	Data   interface{}   `json:"data" yaml:"data"`
	Events []outputEvent `json:"events" yaml:"events"`
}

// printResponse prints the decoded data and events of a state changing call.
func printResponse(cmd *cobra.Command, format string, resp *verifier.Response) error {
	out := outputResponse{Events: []outputEvent{}}
	if err := decodeData(resp.Data, &out.Data); err != nil {
		return err
	}

	for _, event := range resp.Events {
		e := outputEvent{Type: event.Type}
		for _, attr := range event.Attributes {
			e.Attributes = append(e.Attributes, outputAttribute{Key: string(attr.Key), Value: string(attr.Value)})
		}
		out.Events = append(out.Events, e)
	}

	return writeOutput(cmd, format, out)
}

// printData prints the decoded result of a query.
func printData(cmd *cobra.Command, format string, data []byte) error {
	var out interface{}
	if err := decodeData(data, &out); err != nil {
		return err
	}
	return writeOutput(cmd, format, out)
}

func decodeData(data []byte, out *interface{}) error {
	if len(data) == 0 {
		return nil
	}
	// timestamps are unix nanoseconds and do not fit a float64
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return errors.Wrap(dec.Decode(out), "failed to decode result")
}

func writeOutput(cmd *cobra.Command, format string, out interface{}) error {
	var (
		bz  []byte
		err error
	)
	switch format {
	case OutputYAML:
		bz, err = yaml.Marshal(out)
	default:
		bz, err = json.MarshalIndent(out, "", "  ")
		bz = append(bz, '\n')
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s output", format)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), string(bz))
	return err
}

package protocol

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var (
	helloSchema = mustSchema("hello.schema.json")
	actSchema   = mustSchema("act.schema.json")
)

func mustSchema(name string) *jsonschema.Schema {
	b, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	url := "https://battlecode.ai/schemas/" + name
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, strings.NewReader(string(b))); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	return c.MustCompile(url)
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}

// DecodeHello checks raw against the HELLO schema before decoding it.
func DecodeHello(raw []byte) (HelloMsg, error) {
	var m HelloMsg
	if err := validate(helloSchema, raw); err != nil {
		return m, err
	}
	err := json.Unmarshal(raw, &m)
	return m, err
}

// DecodeAct checks raw against the ACT schema before decoding it.
func DecodeAct(raw []byte) (ActMsg, error) {
	var m ActMsg
	if err := validate(actSchema, raw); err != nil {
		return m, err
	}
	err := json.Unmarshal(raw, &m)
	return m, err
}

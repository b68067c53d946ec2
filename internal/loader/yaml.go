package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// yamlManifest is the document shape of a YAML plugin manifest:
//
//	library: matrix1
//	commands:
//	  - name: RANDOMIZE MATRIX
//	    symbol: RandomizeMatrix
//	    params:
//	      - {type: Integer, name: matrixID}
//	  - entry: "GET MATRIX HEIGHT[%LL%GetMatrixHeight%matrixID"
type yamlManifest struct {
	Library  string      `yaml:"library"`
	Commands []yaml.Node `yaml:"commands"`
}

// LoadYAML decodes a YAML manifest. source names the manifest in
// provenance and diagnostics; the library defaults to its file stem.
func LoadYAML(data []byte, source string, mode LoadMode) ([]*ir.Command, []error) {
	var m yamlManifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, []error{&LoadError{
			Code:    ErrCodeSource,
			Message: fmt.Sprintf("parsing YAML: %v", err),
			Source:  source,
		}}
	}
	prov := ir.Provenance{Library: m.Library, Source: source}
	if prov.Library == "" {
		prov.Library = libraryName(source)
	}

	c := &collector{mode: mode}
	for i := range m.Commands {
		node := &m.Commands[i]
		var mc manifestCommand
		if err := decodeStrict(node, &mc); err != nil {
			err = &LoadError{Code: ErrCodeMalformedEntry, Field: fmt.Sprintf("commands[%d]", i), Message: err.Error()}
			if !c.fail(locate(err, source, node.Line)) {
				break
			}
			continue
		}
		rec, err := mc.record()
		if err != nil {
			if !c.fail(locate(err, source, node.Line)) {
				break
			}
			continue
		}
		cmd, err := Decode(rec, prov)
		if err != nil {
			if !c.fail(locate(err, source, node.Line)) {
				break
			}
			continue
		}
		c.cmds = append(c.cmds, cmd)
	}
	return c.cmds, c.errs
}

// decodeStrict decodes node into v, rejecting keys v does not declare.
// yaml.Node.Decode has no KnownFields switch, so the node is re-encoded
// and read back through a strict decoder.
func decodeStrict(node *yaml.Node, v any) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(v)
}

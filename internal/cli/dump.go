package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/matcher"
)

// Dump renderings.
const (
	DumpText = "text"
	DumpJSON = "json"
	DumpDOT  = "dot"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	As string // text | json | dot; empty follows --format
}

// DumpResult is the JSON rendering of the command set.
type DumpResult struct {
	Commands         []CommandInfo `json:"commands"`
	Names            []string      `json:"names"`
	LongestName      int           `json:"longest_name"`
	LongestWordCount int           `json:"longest_word_count"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the indexed commands",
		Long: `Print every indexed command.

--as text lists signatures in index order, --as json adds command IDs and
the matcher's name set, and --as dot draws the command names as a
word-level prefix tree for Graphviz.

Examples:
  odbcmd dump -s ./plugins
  odbcmd dump --catalog odb.db --as json
  odbcmd dump -s ./plugins --as dot | dot -Tsvg > commands.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "rendering (text|json|dot), defaults to --format")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	as := opts.As
	if as == "" {
		as = opts.Format
	}
	switch as {
	case DumpText, DumpJSON, DumpDOT:
	default:
		msg := fmt.Sprintf("invalid rendering %q: must be one of [%s %s %s]", as, DumpText, DumpJSON, DumpDOT)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	set, err := loadCommandSet(cmd.Context(), opts.RootOptions, formatter, nil)
	if err != nil {
		return err
	}
	if err := requireNoConflicts(formatter, set); err != nil {
		return err
	}
	m := matcher.New(set.Index)
	w := cmd.OutOrStdout()

	switch as {
	case DumpDOT:
		return WriteDOT(w, m.Names())
	case DumpJSON:
		result := DumpResult{
			Commands:         make([]CommandInfo, 0, set.Index.Len()),
			Names:            m.Names(),
			LongestName:      m.LongestCommandLength(),
			LongestWordCount: m.LongestCommandWordCount(),
		}
		for _, c := range set.Index.Commands() {
			result.Commands = append(result.Commands, commandInfo(c))
		}
		f := *formatter
		f.Format = DumpJSON
		return f.Success(result)
	default:
		for _, c := range set.Index.Commands() {
			fmt.Fprintf(w, "%-50s %-24s [%s]\n", c.Signature(), c.Symbol, c.Provenance)
		}
		return nil
	}
}

// dotNode is one word in the name prefix tree.
type dotNode struct {
	word     string
	terminal bool // a full command name ends here
	children map[string]*dotNode
}

func (n *dotNode) child(word string) *dotNode {
	if n.children == nil {
		n.children = make(map[string]*dotNode)
	}
	c, ok := n.children[word]
	if !ok {
		c = &dotNode{word: word}
		n.children[word] = c
	}
	return c
}

// WriteDOT renders names as a Graphviz digraph in which each node is one
// word and every path from the root that ends on a double-bordered node
// spells a command name. Output is deterministic for a given name set.
func WriteDOT(w io.Writer, names []string) error {
	root := &dotNode{}
	for _, name := range names {
		n := root
		for _, word := range strings.Fields(name) {
			n = n.child(word)
		}
		if n != root {
			n.terminal = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph commands {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=box, fontname=\"monospace\"];\n")
	b.WriteString("\tn0 [label=\"\", shape=point];\n")

	next := 1
	var walk func(n *dotNode, id int)
	walk = func(n *dotNode, id int) {
		words := make([]string, 0, len(n.children))
		for w := range n.children {
			words = append(words, w)
		}
		slices.Sort(words)
		for _, word := range words {
			c := n.children[word]
			cid := next
			next++
			attrs := fmt.Sprintf("label=%q", c.word)
			if c.terminal {
				attrs += ", peripheries=2"
			}
			fmt.Fprintf(&b, "\tn%d [%s];\n", cid, attrs)
			fmt.Fprintf(&b, "\tn%d -> n%d;\n", id, cid)
			walk(c, cid)
		}
	}
	walk(root, 0)
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phroun/treasure"
)

// REPL holds the state of the interactive session
type REPL struct {
	project    *treasure.Project
	doc        *treasure.Document
	checkpoint []byte
	reader     *bufio.Reader
}

func main() {
	fmt.Println("Treasure REPL - Interactive Treasure Table Editor")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		reader: bufio.NewReader(os.Stdin),
	}

	// Main loop
	for {
		fmt.Print("treasure> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "new":
		r.cmdNew(args)

	case "open":
		r.cmdOpen(args)

	case "save":
		r.cmdSave(args)

	case "status":
		r.cmdStatus()

	case "count":
		r.cmdCount(args)

	case "get":
		r.cmdGet(args)

	case "add":
		r.cmdAdd(args)

	case "set":
		r.cmdSet(args)

	case "dump":
		r.cmdDump()

	case "find":
		r.cmdFind(args)

	case "checkpoint":
		r.cmdCheckpoint()

	case "revert":
		r.cmdRevert()

	default:
		fmt.Printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

FILE OPERATIONS:
  new [<treasures>]               Create a document with an empty treasure table
  open <filepath> [<treasures>]   Open an assembly source file
  save [<filepath>]               Save the document, optionally to a new path
  status                          Show current document status

TREASURE OPERATIONS (indices are hex, "$" prefix optional):
  count <treasure>                Show how many subids a treasure has
  get <treasure> <subid>          Show one treasure object
  add <treasure>                  Append a new subid to a treasure
  set <treasure> <subid> <field> <value>
                                  Set a field (spawn, param, text, gfx, name or 0-4)

INSPECTION:
  dump                            Dump the document
  find <text>                     List lines containing text (case-insensitive)

CHECKPOINTS:
  checkpoint                      Remember the current content
  revert                          Restore the remembered content

OTHER:
  help                            Show this help message
  quit, exit                      Exit the REPL

The number of treasures defaults to $68.
`
	fmt.Println(help)
}

func (r *REPL) cmdNew(args []string) {
	num := treasure.DefaultNumTreasures
	if len(args) >= 1 {
		n, err := parseHex(args[0])
		if err != nil || n <= 0 {
			fmt.Printf("Invalid treasure count: %s\n", args[0])
			return
		}
		num = n
	}

	lines := []string{treasure.TreasureDataLabel + ":"}
	for i := 0; i < num; i++ {
		lines = append(lines, fmt.Sprintf("\t/* $%02x */ %s   $00, $00, $ff, $00, TREASURE_OBJECT_%02X_00",
			i, treasure.CommandTreasureSubid, i))
	}

	p := treasure.NewProject(treasure.ProjectOptions{NumTreasures: num})
	d, err := p.Open(treasure.FileOptions{DataString: strings.Join(lines, "\n") + "\n"})
	if err != nil {
		fmt.Printf("Error creating document: %v\n", err)
		return
	}

	r.project, r.doc, r.checkpoint = p, d, nil
	fmt.Printf("Created new document with %d treasures (%d bytes)\n", num, d.ByteCount())
}

func (r *REPL) cmdOpen(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: open <filepath> [<treasures>]")
		return
	}

	options := treasure.ProjectOptions{}
	if len(args) >= 2 {
		n, err := parseHex(args[1])
		if err != nil || n <= 0 {
			fmt.Printf("Invalid treasure count: %s\n", args[1])
			return
		}
		options.NumTreasures = n
	}

	p := treasure.NewProject(options)
	d, err := p.Open(treasure.FileOptions{FilePath: args[0]})
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		return
	}

	r.project, r.doc, r.checkpoint = p, d, nil
	fmt.Printf("Opened %s: %d lines, %d bytes\n", d.Path(), len(d.Lines()), d.ByteCount())
}

func (r *REPL) cmdSave(args []string) {
	if !r.ensureDocument() {
		return
	}

	var err error
	if len(args) >= 1 {
		err = r.doc.SaveAs(args[0])
	} else {
		err = r.doc.Save()
	}
	if err != nil {
		fmt.Printf("Error saving: %v\n", err)
		return
	}
	fmt.Printf("Saved %s\n", r.doc.Path())
}

func (r *REPL) cmdStatus() {
	if r.doc == nil {
		fmt.Println("No document is open. Use 'new' or 'open <filepath>'.")
		return
	}

	d := r.doc
	fmt.Println("Document Status:")
	fmt.Printf("  ID:        %s\n", d.ID())
	if d.Path() != "" {
		fmt.Printf("  Path:      %s\n", d.Path())
	}
	fmt.Printf("  Lines:     %d\n", len(d.Lines()))
	fmt.Printf("  Bytes:     %d\n", d.ByteCount())
	fmt.Printf("  Treasures: $%02x\n", r.project.NumTreasures())
	fmt.Printf("  Checkpoint: %v\n", r.checkpoint != nil)
}

func (r *REPL) cmdCount(args []string) {
	g := r.groupArg(args, "Usage: count <treasure>")
	if g == nil {
		return
	}

	layout := "direct"
	if g.UsesPointer() {
		layout = "pointer to " + g.DataStart().Value(0)
	}
	fmt.Printf("Treasure $%02x (%s): %d subids, %s\n",
		g.Index(), r.project.TreasureName(g.Index()), g.NumObjects(), layout)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: get <treasure> <subid>")
		return
	}
	obj := r.objectArg(args)
	if obj == nil {
		return
	}
	printObject(obj)
}

func (r *REPL) cmdAdd(args []string) {
	g := r.groupArg(args, "Usage: add <treasure>")
	if g == nil {
		return
	}

	obj, err := g.AddObject()
	if err != nil {
		fmt.Printf("Add error: %v\n", err)
		return
	}
	if obj == nil {
		fmt.Printf("Treasure $%02x already has %d subids\n", g.Index(), treasure.MaxSubids)
		return
	}
	fmt.Printf("Added subid $%02x\n", obj.Subid())
	printObject(obj)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 4 {
		fmt.Println("Usage: set <treasure> <subid> <field> <value>")
		return
	}
	obj := r.objectArg(args)
	if obj == nil {
		return
	}

	field, ok := fieldIndex(args[2])
	if !ok {
		fmt.Printf("Unknown field: %s\n", args[2])
		return
	}

	value := strings.Join(args[3:], " ")
	if err := obj.SetValue(field, value); err != nil {
		fmt.Printf("Set error: %v\n", err)
		return
	}
	printObject(obj)
}

func (r *REPL) cmdDump() {
	if !r.ensureDocument() {
		return
	}

	for i, line := range r.doc.Lines() {
		fmt.Printf("%5d  %s\n", i+1, line)
	}
}

func (r *REPL) cmdFind(args []string) {
	if !r.ensureDocument() {
		return
	}
	if len(args) < 1 {
		fmt.Println("Usage: find <text>")
		return
	}

	results := r.doc.FindString(strings.Join(args, " "), treasure.SearchOptions{})
	if len(results) == 0 {
		fmt.Println("No matches")
		return
	}
	for _, res := range results {
		fmt.Printf("%5d:%-3d %s\n", res.Line+1, res.Column+1, res.Node)
	}
}

func (r *REPL) cmdCheckpoint() {
	if !r.ensureDocument() {
		return
	}

	cp, err := r.doc.Checkpoint()
	if err != nil {
		fmt.Printf("Checkpoint error: %v\n", err)
		return
	}
	r.checkpoint = cp
	fmt.Printf("Checkpoint taken (%d bytes encoded)\n", len(cp))
}

func (r *REPL) cmdRevert() {
	if !r.ensureDocument() {
		return
	}
	if r.checkpoint == nil {
		fmt.Println("No checkpoint taken. Use 'checkpoint' first.")
		return
	}

	if err := r.project.Revert(r.doc, r.checkpoint); err != nil {
		fmt.Printf("Revert error: %v\n", err)
		return
	}
	fmt.Printf("Reverted to checkpoint: %d lines, %d bytes\n", len(r.doc.Lines()), r.doc.ByteCount())
}

func (r *REPL) groupArg(args []string, usage string) *treasure.TreasureGroup {
	if !r.ensureDocument() {
		return nil
	}
	if len(args) < 1 {
		fmt.Println(usage)
		return nil
	}

	index, err := parseHex(args[0])
	if err != nil {
		fmt.Printf("Invalid treasure: %v\n", err)
		return nil
	}
	g, err := r.project.TreasureGroup(index)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil
	}
	return g
}

func (r *REPL) objectArg(args []string) *treasure.TreasureObject {
	g := r.groupArg(args, "")
	if g == nil {
		return nil
	}

	subid, err := parseHex(args[1])
	if err != nil {
		fmt.Printf("Invalid subid: %v\n", err)
		return nil
	}
	obj := g.GetObject(subid)
	if obj == nil {
		fmt.Printf("Treasure $%02x has no subid $%02x (%d subids)\n", g.Index(), subid, g.NumObjects())
		return nil
	}
	return obj
}

func (r *REPL) ensureDocument() bool {
	if r.doc == nil {
		fmt.Println("No document is open. Use 'new' or 'open <filepath>'.")
		return false
	}
	return true
}

func printObject(obj *treasure.TreasureObject) {
	fmt.Printf("%s: %s\n", obj, obj.ObjectName())
	for i, name := range fieldNames {
		raw := obj.Value(i)
		if v, err := obj.IntValue(i); err == nil && i != treasure.FieldObjectName {
			fmt.Printf("  %-6s %-16s = $%02x\n", name, raw, v)
		} else {
			fmt.Printf("  %-6s %s\n", name, raw)
		}
	}
}

var fieldNames = []string{"spawn", "param", "text", "gfx", "name"}

func fieldIndex(s string) (int, bool) {
	for i, name := range fieldNames {
		if strings.EqualFold(s, name) {
			return i, true
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= len(fieldNames) {
		return 0, false
	}
	return i, true
}

func parseHex(s string) (int, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "$"), 16, 0)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

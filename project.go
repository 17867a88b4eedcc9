package treasure

import (
	"fmt"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
)

const (
	// DefaultNumTreasures is the number of treasure indices when none is configured.
	DefaultNumTreasures = 0x68

	// MaxSubids is the most records a single treasure group can hold.
	MaxSubids = 256

	// TreasureDataLabel is the label of the per-treasure data table.
	TreasureDataLabel = "treasureObjectData"

	// treasureEntrySize is the size in bytes of one entry in the per-treasure table.
	treasureEntrySize = 4
)

// Commands understood by the treasure tables.
const (
	CommandTreasureSubid  = "m_TreasureSubid"
	CommandTreasurePtr    = "m_TreasurePointer"
	CommandBeginSubids    = "m_BeginTreasureSubids"
	treasureNamePrefix    = "TREASURE_"
	treasureObjectPrefix  = "TREASURE_OBJECT_"
	treasureLabelTemplate = "treasureObjectData%02x"
)

// defaultCommandSizes are the assembled sizes of the known data commands.
// Keys are lowercase.
var defaultCommandSizes = map[string]int{
	"m_treasuresubid":       4,
	"m_treasurepointer":     4,
	"m_begintreasuresubids": 0,
}

// ProjectOptions configures a Project.
type ProjectOptions struct {
	// NumTreasures is the number of valid treasure indices (0 = DefaultNumTreasures).
	NumTreasures int

	// Log receives structured log output. When nil, the shared logger is
	// initialised at LogLevel and a service-scoped logger is derived from it.
	Log logger.Logger

	// LogLevel is used only when Log is nil ("" = "INFO").
	LogLevel string

	// CommandSizes overrides or extends the byte size of data commands.
	// Unknown commands assemble to zero bytes.
	CommandSizes map[string]int

	// TreasureNames maps treasure indices to constant names. Entries here take
	// precedence over ".define TREASURE_..." lines found in opened documents.
	TreasureNames map[int]string

	// FileSystem is used for documents opened by path (nil = local files).
	FileSystem FileSystem
}

// FileOptions configures how a Document is opened.
type FileOptions struct {
	// Data source (exactly one must be provided)
	FilePath   string // load from file path
	DataBytes  []byte // literal byte content
	DataString string // literal string content

	// FileSystem overrides the project's file system for this document.
	FileSystem FileSystem

	// ByteLimit caps the bytes the document's data may assemble to (0 = unlimited).
	ByteLimit int
}

// Project resolves names across its documents and owns the treasure groups.
type Project struct {
	log          logger.Logger
	fs           FileSystem
	numTreasures int
	commandSizes map[string]int
	names        map[int]string

	documents []*Document

	// Resolution indices, maintained as nodes are attached and detached
	labels  map[string]*Node
	defines map[string]*Node

	groups map[int]*TreasureGroup
}

// NewProject creates an empty project.
func NewProject(options ProjectOptions) *Project {
	p := &Project{
		log:          options.Log,
		fs:           options.FileSystem,
		numTreasures: options.NumTreasures,
		commandSizes: make(map[string]int, len(defaultCommandSizes)),
		names:        make(map[int]string, len(options.TreasureNames)),
		labels:       make(map[string]*Node),
		defines:      make(map[string]*Node),
		groups:       make(map[int]*TreasureGroup),
	}

	if p.log == nil {
		level := options.LogLevel
		if level == "" {
			level = "INFO"
		}
		logger.New(level)
		p.log = logger.Sugar.WithServiceName("treasure")
	}
	if p.fs == nil {
		p.fs = &localFileSystem{}
	}
	if p.numTreasures <= 0 {
		p.numTreasures = DefaultNumTreasures
	}
	for k, v := range defaultCommandSizes {
		p.commandSizes[k] = v
	}
	for k, v := range options.CommandSizes {
		p.commandSizes[strings.ToLower(k)] = v
	}
	for k, v := range options.TreasureNames {
		p.names[k] = v
	}
	return p
}

// Open loads a document into the project from one data source.
func (p *Project) Open(options FileOptions) (*Document, error) {
	sourceCount := 0
	if options.FilePath != "" {
		sourceCount++
	}
	if options.DataBytes != nil {
		sourceCount++
	}
	if options.DataString != "" {
		sourceCount++
	}

	if sourceCount == 0 {
		return nil, ErrNoDataSource
	}
	if sourceCount > 1 {
		return nil, ErrMultipleDataSources
	}

	fs := options.FileSystem
	if fs == nil {
		fs = p.fs
	}

	var text string
	switch {
	case options.DataBytes != nil:
		text = string(options.DataBytes)
	case options.DataString != "":
		text = options.DataString
	case options.FilePath != "":
		data, err := fs.ReadFile(options.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", options.FilePath, err)
		}
		text = string(data)
	}

	d := newDocument(p, uuid.NewString(), options.FilePath, fs, options.ByteLimit)
	p.documents = append(p.documents, d)

	// The initial content is loaded without the byte limit; the limit only
	// guards later growth.
	limit := d.byteLimit
	d.byteLimit = 0
	_, err := d.InsertTextAfter(nil, splitLines(text))
	d.byteLimit = limit
	if err != nil {
		return nil, err
	}

	p.log.Debugf("opened document %s (%s): %d bytes", d.id, d.path, d.byteCount)
	return d, nil
}

// Documents returns the project's documents in the order they were opened.
func (p *Project) Documents() []*Document {
	return p.documents
}

// Log returns the project's logger.
func (p *Project) Log() logger.Logger {
	return p.log
}

// NumTreasures returns the number of valid treasure indices.
func (p *Project) NumTreasures() int {
	return p.numTreasures
}

// TreasureGroup returns the group for index, creating it on first use.
// The same group is returned for the same index for the project's lifetime.
func (p *Project) TreasureGroup(index int) (*TreasureGroup, error) {
	if g, ok := p.groups[index]; ok {
		return g, nil
	}
	g, err := newTreasureGroup(p, index)
	if err != nil {
		return nil, err
	}
	p.groups[index] = g
	return g, nil
}

// GetLabel returns the attached label node with the given name.
func (p *Project) GetLabel(name string) (*Node, error) {
	l, ok := p.labels[name]
	if !ok {
		return nil, fmt.Errorf("label %q: %w", name, ErrInvalidLookup)
	}
	return l, nil
}

// HasLabel reports whether a label with the given name is attached.
func (p *Project) HasLabel(name string) bool {
	_, ok := p.labels[name]
	return ok
}

// GetData returns the data node that assembles to offset bytes past label.
// Zero-sized data (macros that emit nothing) is never returned.
func (p *Project) GetData(label string, offset int) (*Node, error) {
	l, err := p.GetLabel(label)
	if err != nil {
		return nil, err
	}

	pos := 0
	for n := l.Next(); n != nil; n = n.Next() {
		if !n.IsData() {
			continue
		}
		size := n.Size()
		if pos == offset && size > 0 {
			return n, nil
		}
		pos += size
		if pos > offset {
			break
		}
	}
	return nil, fmt.Errorf("%s+%d: %w", label, offset, ErrInvalidLookup)
}

// UniqueLabelName returns prefix if no label uses it, otherwise prefix_N for
// the smallest free N.
func (p *Project) UniqueLabelName(prefix string) string {
	if !p.HasLabel(prefix) {
		return prefix
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", prefix, i)
		if !p.HasLabel(name) {
			return name
		}
	}
}

// TreasureName returns the constant name of a treasure index, such as
// "TREASURE_SWORD". Unknown indices get "TREASURE_%02X".
func (p *Project) TreasureName(index int) string {
	if name, ok := p.names[index]; ok {
		return name
	}
	found := ""
	for name := range p.defines {
		if !strings.HasPrefix(name, treasureNamePrefix) || strings.HasPrefix(name, treasureObjectPrefix) {
			continue
		}
		if found != "" && name > found {
			continue
		}
		if v, err := p.Eval(name); err == nil && v == index {
			found = name
		}
	}
	if found != "" {
		return found
	}
	return fmt.Sprintf("%s%02X", treasureNamePrefix, index)
}

func (p *Project) commandSize(command string) int {
	return p.commandSizes[strings.ToLower(command)]
}

// nodeAttached keeps the label and define indices current.
func (p *Project) nodeAttached(n *Node) {
	switch n.kind {
	case LabelNode:
		if _, ok := p.labels[n.name]; !ok {
			p.labels[n.name] = n
		}
	case TextNode:
		if name, _, ok := parseDefine(n.text); ok {
			p.defines[name] = n
		}
	}
}

func (p *Project) nodeDetached(n *Node) {
	switch n.kind {
	case LabelNode:
		if p.labels[n.name] == n {
			delete(p.labels, n.name)
		}
	case TextNode:
		if name, _, ok := parseDefine(n.text); ok && p.defines[name] == n {
			delete(p.defines, name)
		}
	}
}

package gmdoc

import (
	"fmt"

	"go.jacobcolvin.com/gmdoc/docflag"
)

// Type names the value type of a parameter or return value.
type Type string

// TypeReal is the type of every parsed parameter and return value; comments
// do not declare types.
const TypeReal Type = "real"

// Param is one documented method parameter.
type Param struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description"`
}

// Return describes a method's return value.
type Return struct {
	Type        Type   `json:"type"`
	Description string `json:"description"`
}

// Method is one documented script.
type Method struct {
	Flags       docflag.Values `json:"flags"`
	Return      *Return        `json:"return,omitempty"`
	Name        string         `json:"name"`
	Path        string         `json:"path"`
	Syntax      string         `json:"syntax"`
	Description string         `json:"description"`
	Params      []Param        `json:"params"`
}

// Private reports whether the method is flagged private.
func (m *Method) Private() bool {
	return m.Flags.Bool(docflag.Private)
}

// NoSidebar reports whether the method asks to be left out of navigation.
func (m *Method) NoSidebar() bool {
	return m.Flags.Bool(docflag.NoSidebar)
}

// Kind tags the payload of an [Item].
type Kind string

// Item kinds.
const (
	KindFolder Kind = "folder"
	KindMethod Kind = "method"
)

// ItemID indexes an [Item] in a [Tree].
type ItemID int

// NoItem is the parent of a tree's root.
const NoItem ItemID = -1

// Item is a node of the documentation tree: a folder, or a method when Kind
// is [KindMethod] and Method is set.
type Item struct {
	Method   *Method  `json:"method,omitempty"`
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name"`
	Children []ItemID `json:"children,omitempty"`
	ID       ItemID   `json:"id"`
	Parent   ItemID   `json:"parent"`
}

// Tree stores documentation items in an arena. Each item is owned by exactly
// one parent, listed in that parent's Children, and refers back to it by id.
type Tree struct {
	Items []Item `json:"items"`
}

// Item returns the item with the given id, or nil if there is none.
func (t *Tree) Item(id ItemID) *Item {
	if id < 0 || int(id) >= len(t.Items) {
		return nil
	}

	return &t.Items[id]
}

// add appends it under parent and returns its id. Pass [NoItem] to add a
// root.
func (t *Tree) add(parent ItemID, it Item) ItemID {
	id := ItemID(len(t.Items))

	it.ID = id
	it.Parent = parent

	if parent != NoItem {
		p := t.Item(parent)
		if p == nil || p.Kind != KindFolder {
			panic(fmt.Sprintf("gmdoc: invalid parent item %d", parent))
		}

		p.Children = append(p.Children, id)
	}

	t.Items = append(t.Items, it)

	return id
}

// Walk calls fn for id and its descendants, depth first with children in
// order. depth is 0 for id itself. Walk stops at the first error fn returns.
func (t *Tree) Walk(id ItemID, fn func(it *Item, depth int) error) error {
	return t.walk(id, 0, fn)
}

func (t *Tree) walk(id ItemID, depth int, fn func(*Item, int) error) error {
	it := t.Item(id)
	if it == nil {
		return nil
	}

	err := fn(it, depth)
	if err != nil {
		return err
	}

	for _, c := range it.Children {
		err := t.walk(c, depth+1, fn)
		if err != nil {
			return err
		}
	}

	return nil
}

// Path returns the names of the folders above id, outermost first, excluding
// the tree root.
func (t *Tree) Path(id ItemID) []string {
	var names []string

	it := t.Item(id)
	for it != nil && it.Parent != NoItem {
		parent := t.Item(it.Parent)
		if parent.Parent != NoItem {
			names = append([]string{parent.Name}, names...)
		}

		it = parent
	}

	return names
}

// Help is the documentation recovered from the project's help file.
type Help struct {
	// Path is the help file path relative to the project directory.
	Path string `json:"path"`
	// Plaintext is the full text of the help file.
	Plaintext string `json:"plaintext"`
	// Docs is the leading comment block of Plaintext.
	Docs string `json:"docs"`
	// DocsSplit is Docs split into lines.
	DocsSplit []string `json:"docs_split"`
}

// Warning records a script that was skipped or only partly documented.
type Warning struct {
	Err     error  `json:"-"`
	Script  string `json:"script,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func newWarning(script, path string, err error) Warning {
	return Warning{
		Err:     err,
		Script:  script,
		Path:    path,
		Message: err.Error(),
	}
}

// Error implements error.
func (w Warning) Error() string {
	if w.Path == "" {
		return w.Message
	}

	return w.Path + ": " + w.Message
}

// Unwrap returns the underlying error.
func (w Warning) Unwrap() error {
	return w.Err
}

// Project is the documentation model of one project.
type Project struct {
	Name      string    `json:"name"`
	Directory string    `json:"directory"`
	Help      Help      `json:"help"`
	Tree      Tree      `json:"tree"`
	Methods   []ItemID  `json:"methods"`
	Warnings  []Warning `json:"warnings,omitempty"`
	Root      ItemID    `json:"root"`
}

// NewProject creates an empty [Project] whose script tree root is a folder
// named rootName.
func NewProject(name, dir, rootName string) *Project {
	p := &Project{
		Name:      name,
		Directory: dir,
		Methods:   []ItemID{},
	}

	p.Root = p.Tree.add(NoItem, Item{Kind: KindFolder, Name: rootName})

	return p
}

// AddFolder adds a folder under parent and returns its id.
func (p *Project) AddFolder(parent ItemID, name string) ItemID {
	return p.Tree.add(parent, Item{Kind: KindFolder, Name: name})
}

// AddMethod adds m under parent and returns its id. Unless m is private it
// is also appended to the project's method list, which therefore follows
// insertion order.
func (p *Project) AddMethod(parent ItemID, m *Method) ItemID {
	id := p.Tree.add(parent, Item{Kind: KindMethod, Name: m.Name, Method: m})
	if !m.Private() {
		p.Methods = append(p.Methods, id)
	}

	return id
}

// MethodList returns the listed (non-private) methods in discovery order.
func (p *Project) MethodList() []*Method {
	methods := make([]*Method, 0, len(p.Methods))
	for _, id := range p.Methods {
		methods = append(methods, p.Tree.Item(id).Method)
	}

	return methods
}

// Method returns the listed method with the given name.
func (p *Project) Method(name string) (*Method, bool) {
	for _, m := range p.MethodList() {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

package types

// BlockKind discriminates the block variants of a converted document tree.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockTable BlockKind = "table"
	BlockImage BlockKind = "image"
)

// Table is a recognized table: a header row plus a 2D grid of cells.
type Table struct {
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
}

// ImageRef is an image placeholder inside a page. Data holds the raw encoded
// image bytes when the engine could extract them; Marker is the text emitted
// into the markdown when no description replaces the image.
type ImageRef struct {
	ID     string
	Data   []byte
	MIME   string
	Marker string
}

// Block is one unit of page content. Exactly one of Text/Table/Image is set,
// matching Kind.
type Block struct {
	Kind  BlockKind
	Text  string
	Table *Table
	Image *ImageRef
}

// Page holds the ordered blocks of one document page. Numbering starts at 1.
type Page struct {
	Number int
	Blocks []Block
}

// Document is the tree returned by a conversion engine. Beyond the
// page/text/table/image structure its producer's internal format is opaque
// to this service.
type Document struct {
	Filename string
	Pages    []Page
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return len(d.Pages) }

// Tables returns all table blocks in document order.
func (d *Document) Tables() []Table {
	var out []Table
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == BlockTable && b.Table != nil {
				out = append(out, *b.Table)
			}
		}
	}
	return out
}

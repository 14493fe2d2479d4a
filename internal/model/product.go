package model

// Colunas do export de produtos do Shopify
const (
	ColHandle       = "Handle"
	ColTitle        = "Title"
	ColBody         = "Body (HTML)"
	ColVendor       = "Vendor"
	ColPublished    = "Published"
	ColVariantPrice = "Variant Price"
	ColImageSrc     = "Image Src"
	ColVariantImage = "Variant Image"
	ColStatus       = "Status"
	ColInventoryQty = "Variant Inventory Qty"
)

// RequiredColumns precisam estar todas no header do export.
var RequiredColumns = []string{
	ColHandle,
	ColTitle,
	ColBody,
	ColVendor,
	ColPublished,
	ColVariantPrice,
	ColImageSrc,
	ColVariantImage,
	ColStatus,
}

// ExportColumns é o header do Merchant Center, na ordem de saída.
var ExportColumns = []string{
	"id",
	"title",
	"description",
	"link",
	"condition",
	"price",
	"availability",
	"image_link",
	"gtin",
	"mpn",
	"brand",
	"google product category",
}

const (
	StatusActive        = "active"
	AvailabilityInStock = "in_stock"
)

// NullString é uma célula do CSV que pode faltar. Células vazias viram null.
type NullString struct {
	String string
	Valid  bool
}

func (n NullString) OrEmpty() string {
	if !n.Valid {
		return ""
	}
	return n.String
}

// ProductRow é uma linha do export do Shopify.
type ProductRow struct {
	Line         int // linha no arquivo de origem (header = 1)
	Handle       string
	Title        NullString
	Body         NullString
	Vendor       string
	Published    string
	VariantPrice NullString
	ImageSrc     NullString
	VariantImage string
	Status       string
	InventoryQty NullString
}

// WorkingRow é a linha projetada que o filtro entrega ao mapper.
type WorkingRow struct {
	Line          int
	Handle        string
	Title         string
	Body          string // já sanitizado
	Vendor        string
	Published     string
	VariantPrice  string
	ImageSrc      string
	VariantImage  string
	Status        string
	TotalQuantity int
	HasTotal      bool
}

// ExportRow é uma linha do feed do Merchant Center. Description fica nil quando
// a descrição está desligada. Condition, GTIN, MPN e GoogleProductCategory nunca
// são preenchidos, mas as colunas continuam no header.
type ExportRow struct {
	ID                    string  `json:"id"`
	Title                 string  `json:"title"`
	Description           *string `json:"description,omitempty"`
	Link                  string  `json:"link"`
	Condition             string  `json:"condition"`
	Price                 string  `json:"price"`
	Availability          string  `json:"availability"`
	ImageLink             string  `json:"image_link"`
	GTIN                  string  `json:"gtin"`
	MPN                   string  `json:"mpn"`
	Brand                 string  `json:"brand"`
	GoogleProductCategory string  `json:"google_product_category"`
}

// Record retorna a linha na ordem de ExportColumns.
func (r ExportRow) Record() []string {
	desc := ""
	if r.Description != nil {
		desc = *r.Description
	}
	return []string{
		r.ID,
		r.Title,
		desc,
		r.Link,
		r.Condition,
		r.Price,
		r.Availability,
		r.ImageLink,
		r.GTIN,
		r.MPN,
		r.Brand,
		r.GoogleProductCategory,
	}
}

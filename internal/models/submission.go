package models

// FieldKeys is the fixed set of text fields collected from a submission, in
// the order they appear in the rendered field table and, for the ledger
// subset, in the appended row. The table always contains exactly these keys;
// a field the client did not send is present with an empty value.
var FieldKeys = []string{
	"date",
	"product_category",
	"supplier_name",
	"item_description",
	"design_no",
	"colour",
	"inspector_name",
	"fabric_quality",
	"merchandiser_name",
	"order_quantity",
	"presented_quantity",
	"pieces_inspected",
	"sampling_range",
	"inline_inspection",
	"pp_approved",
	"packing_list",
	"po_same",
	"storage_ok",
	"carton_selected",
	"total_cartons",
	"inspected_cartons",
	"inspection_result",
	"delivery_date",
	"final_comments",
}

// LedgerKeys is the subset of FieldKeys appended to the ledger, in row order.
var LedgerKeys = []string{
	"date",
	"product_category",
	"supplier_name",
	"item_description",
	"design_no",
	"colour",
	"inspector_name",
	"merchandiser_name",
	"order_quantity",
	"presented_quantity",
	"pp_approved",
	"delivery_date",
	"final_comments",
}

// Fields maps field keys to the submitted values. Iteration order is defined
// by FieldKeys, not by the map itself.
type Fields map[string]string

// ImageCategory identifies one of the fixed named image groups a submission
// may carry.
type ImageCategory struct {
	// FormField is the multipart field name the client uses.
	FormField string
	// Prefix namespaces the stored files within the staging area.
	Prefix string
	// Title heads the category's section in the report.
	Title string
}

// ImageCategories lists the fixed categories in report section order.
var ImageCategories = []ImageCategory{
	{FormField: "factory_pictures", Prefix: "factory", Title: "Factory Pictures"},
	{FormField: "inline_pictures", Prefix: "inline", Title: "Inline Pictures"},
	{FormField: "pp_pictures", Prefix: "pp", Title: "PP Sample Pictures"},
	{FormField: "packing_list_pictures", Prefix: "packing", Title: "Packing List Pictures"},
	{FormField: "po_pictures", Prefix: "po", Title: "PO Pictures"},
	{FormField: "storage_pictures", Prefix: "storage", Title: "Storage Pictures"},
	{FormField: "carton_pictures", Prefix: "carton", Title: "Carton Pictures"},
}

// SignerRole identifies one of the fixed signature slots.
type SignerRole struct {
	// FormField is the data-URL form field the client submits.
	FormField string
	// FileName is the stored signature image name.
	FileName string
	// Label heads the signature in the report.
	Label string
}

// SignerRoles lists the fixed roles in report order.
var SignerRoles = []SignerRole{
	{FormField: "qc_signature", FileName: "qc_signature.png", Label: "QC Officer"},
	{FormField: "supplier_signature", FileName: "supplier_signature.png", Label: "Supplier Representative"},
	{FormField: "aqm_signature", FileName: "aqm_signature.png", Label: "Assistant Quality Manager"},
	{FormField: "merch_signature", FileName: "merch_signature.png", Label: "Merchandiser"},
}

// DefectRecord is one entry of the submitted defect list. Counts are
// free-text strings exactly as submitted; no arithmetic is performed on them.
type DefectRecord struct {
	Type       string
	MinorCount string
	MajorCount string
	// Images holds the staged image paths attached to this defect.
	Images []string
}

// DefectTotals carries the submitter-entered totals. They are independent of
// the per-defect counts and are never reconciled against them.
type DefectTotals struct {
	Minor string
	Major string
}

// Submission is the in-memory record of one form post after intake. Image
// values are staged file paths owned by the intake layer; the assembler only
// reads them.
type Submission struct {
	ID           string
	Fields       Fields
	Defects      []DefectRecord
	DefectTotals DefectTotals
	// ImageGroups holds staged paths per category, keyed by FormField. A
	// category the client did not send maps to an empty slice.
	ImageGroups map[string][]string
	// Signatures holds staged signature paths keyed by FormField; a role with
	// no decodable signature is absent from the map.
	Signatures map[string]string
	// Warnings collects non-fatal intake anomalies, such as short minor/major
	// count lists padded to match the defect type list.
	Warnings []string
}

// Package files is the file-reader collaborator for the reconciliation
// pipeline: it turns uploaded or on-disk spreadsheet files into the logical
// rows the core consumes, and discovers candidate files for batch runs.
//
// The pipeline itself never touches bytes or file formats; everything
// format-specific (Excel via excelize, CSV via encoding/csv) lives here.
//
// Example usage:
//
//	reader := files.NewReader(logger)
//	rows, err := reader.Read(f, "invoices.xlsx")
//
//	discovery := files.NewDiscovery("/data/uploads")
//	paths, err := discovery.FindSupportedFiles(".")
package files

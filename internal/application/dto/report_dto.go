package dto

// ReportFile archivo generado listo para descargar.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

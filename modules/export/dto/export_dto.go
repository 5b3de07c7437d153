package dto

// ExportResponse points at a generated ICS file for one day.
type ExportResponse struct {
	Date        string `json:"date"`
	ObjectKey   string `json:"object_key"`
	DownloadURL string `json:"download_url"`
	EventCount  int    `json:"event_count"`
}

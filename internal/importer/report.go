package importer

// Satır durumları. Uyarılı satırlar da imported sayılır, sadece
// warnings listesi doludur.
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusError    = "error"
)

// RowReport: yüklenen dosyanın tek satırının sonucu. Row, başlık satırı
// hariç 1 tabanlı orijinal satır numarasıdır.
type RowReport struct {
	Row      int      `json:"row"`
	Name     string   `json:"name,omitempty"`
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Report: toplu yükleme yanıtı. Bir satırın hatası diğerlerini
// engellemez; sayaçlar satır raporlarından türetilir.
type Report struct {
	TotalRows int         `json:"total_rows"`
	Imported  int         `json:"imported"`
	Skipped   int         `json:"skipped"`
	Errors    int         `json:"errors"`
	Rows      []RowReport `json:"rows"`
}

// Add satır raporunu ekleyip sayaçları günceller.
func (r *Report) Add(row RowReport) {
	r.TotalRows++
	switch row.Status {
	case StatusImported:
		r.Imported++
	case StatusSkipped:
		r.Skipped++
	case StatusError:
		r.Errors++
	}
	r.Rows = append(r.Rows, row)
}

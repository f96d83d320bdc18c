package margin

// Line: bir işlemin tek malzeme satırı (birim maliyet x miktar).
type Line struct {
	Cost     float64
	Quantity float64
}

// Result: bir işlemin türetilmiş maliyet alanları.
type Result struct {
	MaterialCost     float64
	Margin           float64
	MarginPercentage float64
}

// Calculate müşteri fiyatı ve malzeme satırlarından marjı hesaplar.
// Yan etkisi yok. Boş satır listesi geçerli (MaterialCost = 0,
// Margin = fiyat); negatif marj da geçerli (maliyetin altında fiyat).
// Fiyat 0 ise marj yüzdesi 0 döner (sıfıra bölme koruması).
func Calculate(customerPrice float64, lines []Line) Result {
	var materialCost float64
	for _, l := range lines {
		materialCost += l.Cost * l.Quantity
	}

	m := customerPrice - materialCost

	var pct float64
	if customerPrice > 0 {
		pct = (m / customerPrice) * 100
	}

	return Result{
		MaterialCost:     materialCost,
		Margin:           m,
		MarginPercentage: pct,
	}
}

package dashboard

import "costdash-backend/internal/models"

// Kategorisi çözülemeyen işlemlerin toplandığı sentetik kova adı.
const UnclassifiedName = "미분류"

type Stats struct {
	TotalMaterials  int64   `json:"total_materials"`
	TotalProcedures int64   `json:"total_procedures"`
	TotalCategories int64   `json:"total_categories"`
	AverageMargin   float64 `json:"average_margin"`
	HighestMargin   float64 `json:"highest_margin"`
	LowestMargin    float64 `json:"lowest_margin"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCost       float64 `json:"total_cost"`
}

type CategoryStats struct {
	CategoryName   string  `json:"category_name"`
	ProcedureCount int     `json:"procedure_count"`
	AverageMargin  float64 `json:"average_margin"`
	TotalRevenue   float64 `json:"total_revenue"`
}

type DistributionBucket struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ComputeStats tüm işlemler üzerinde tek geçişte global istatistikleri
// katlar. AverageMargin, yüzde alanının aritmetik ortalamasıdır
// (fiyat ağırlıklı değil); boş kümede tüm marj alanları 0 döner.
func ComputeStats(materialCount, categoryCount int64, procs []models.Procedure) Stats {
	s := Stats{
		TotalMaterials:  materialCount,
		TotalProcedures: int64(len(procs)),
		TotalCategories: categoryCount,
	}

	for i, p := range procs {
		s.TotalRevenue += p.CustomerPrice
		s.TotalCost += p.CustomerPrice - p.Margin
		s.AverageMargin += p.MarginPercentage

		if i == 0 || p.MarginPercentage > s.HighestMargin {
			s.HighestMargin = p.MarginPercentage
		}
		if i == 0 || p.MarginPercentage < s.LowestMargin {
			s.LowestMargin = p.MarginPercentage
		}
	}
	if len(procs) > 0 {
		s.AverageMargin /= float64(len(procs))
	}

	return s
}

// ComputeCategoryStats kategori bazlı istatistikleri display_order
// sırasıyla üretir. Kategorisi silinmiş/boş işlemler en sonda 미분류
// kovasında toplanır.
func ComputeCategoryStats(categories []models.Category, procs []models.Procedure) []CategoryStats {
	byCategory := make(map[uint][]models.Procedure)
	known := make(map[uint]bool, len(categories))
	for _, cat := range categories {
		known[cat.ID] = true
	}

	var unclassified []models.Procedure
	for _, p := range procs {
		if known[p.CategoryID] {
			byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
		} else {
			unclassified = append(unclassified, p)
		}
	}

	fold := func(name string, group []models.Procedure) CategoryStats {
		cs := CategoryStats{CategoryName: name, ProcedureCount: len(group)}
		for _, p := range group {
			cs.TotalRevenue += p.CustomerPrice
			cs.AverageMargin += p.MarginPercentage
		}
		if len(group) > 0 {
			cs.AverageMargin /= float64(len(group))
		}
		return cs
	}

	res := make([]CategoryStats, 0, len(categories)+1)
	for _, cat := range categories {
		res = append(res, fold(cat.Name, byCategory[cat.ID]))
	}
	if len(unclassified) > 0 {
		res = append(res, fold(UnclassifiedName, unclassified))
	}

	return res
}

// ComputeDistribution işlemleri marj yüzdesine göre dört sabit kovaya
// böler. Uç kovalar açık uçlu: negatif marj "30% 미만"a, %100 üstü
// "70% 이상"a düşer; her değer tam olarak bir kovaya girer ve kova
// toplamları her zaman işlem sayısına eşittir.
func ComputeDistribution(procs []models.Procedure) []DistributionBucket {
	buckets := []DistributionBucket{
		{Range: "70% 이상"},
		{Range: "50-70%"},
		{Range: "30-50%"},
		{Range: "30% 미만"},
	}

	for _, p := range procs {
		pct := p.MarginPercentage
		switch {
		case pct >= 70:
			buckets[0].Count++
		case pct >= 50:
			buckets[1].Count++
		case pct >= 30:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}

	if total := len(procs); total > 0 {
		for i := range buckets {
			buckets[i].Percentage = float64(buckets[i].Count) / float64(total) * 100
		}
	}

	return buckets
}

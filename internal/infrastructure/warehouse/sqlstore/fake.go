package sqlstore

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// FakeOptions sizes a generated dataset
type FakeOptions struct {
	Seed      uint64
	Customers int
	Products  int
	Months    int
	// End is the last generated month; zero means the current month
	End time.Time
}

var (
	fakeCategories = map[string][]string{
		"Acids":     {"Sulfuric acid", "Hydrochloric acid", "Nitric acid", "Phosphoric acid", "Acetic acid"},
		"Alkalis":   {"Caustic soda", "Potassium hydroxide", "Soda ash", "Ammonia solution"},
		"Solvents":  {"Acetone", "Isopropanol", "Toluene", "Xylene", "Ethyl acetate"},
		"Salts":     {"Sodium chloride", "Calcium chloride", "Ferric chloride", "Aluminium sulfate"},
		"Oxidizers": {"Hydrogen peroxide", "Sodium hypochlorite", "Potassium permanganate"},
	}
	fakeGrades = []string{"technical", "food grade", "reagent", "industrial", "33%", "50%", "98%"}
)

type fakeProduct struct {
	code, name, category string
	price                float64
	peak                 int
}

// GenerateDataset builds a consistent synthetic snapshot: monthly sales are
// generated first and every analytics table is aggregated from them.
func GenerateDataset(opts FakeOptions) Dataset {
	if opts.Customers <= 0 {
		opts.Customers = 50
	}
	if opts.Products <= 0 {
		opts.Products = 20
	}
	if opts.Months <= 0 {
		opts.Months = 24
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	f := gofakeit.New(opts.Seed)

	months := make([]time.Time, opts.Months)
	for i := range months {
		months[i] = end.AddDate(0, i-opts.Months+1, 0)
	}

	categories := make([]string, 0, len(fakeCategories))
	for c := range fakeCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	products := make([]fakeProduct, opts.Products)
	for i := range products {
		cat := categories[f.IntRange(0, len(categories)-1)]
		products[i] = fakeProduct{
			code:     fmt.Sprintf("P-%03d", i+1),
			name:     fmt.Sprintf("%s %s", f.RandomString(fakeCategories[cat]), f.RandomString(fakeGrades)),
			category: cat,
			price:    round(f.Float64Range(40, 600), 2),
			peak:     f.IntRange(1, 12),
		}
	}

	var sales []SalesMonthlyModel
	for c := 0; c < opts.Customers; c++ {
		customerID := fmt.Sprintf("C-%04d", c+1)
		bought := map[int]bool{}
		for n := f.IntRange(1, min(6, len(products))); len(bought) < n; {
			bought[f.IntRange(0, len(products)-1)] = true
		}
		idx := make([]int, 0, len(bought))
		for p := range bought {
			idx = append(idx, p)
		}
		sort.Ints(idx)

		activity := f.Float64Range(0.3, 0.9)
		for _, p := range idx {
			prod := products[p]
			base := f.Float64Range(5, 120)
			for _, m := range months {
				if f.Float64() > activity {
					continue
				}
				qty := round(base*seasonalFactor(int(m.Month()), prod.peak)*f.Float64Range(0.7, 1.3), 1)
				name := prod.name
				sales = append(sales, SalesMonthlyModel{
					CustomerID:   customerID,
					ProductCode:  prod.code,
					ProductName:  &name,
					YearMonth:    m.Format("2006-01"),
					QuantitySold: qty,
					Revenue:      round(qty*prod.price, 2),
				})
			}
		}
	}

	last3 := months[max(0, len(months)-3)].Format("2006-01")
	prev3 := months[max(0, len(months)-6)].Format("2006-01")

	return Dataset{
		KPIs:      fakeKPIs(months, sales),
		Customers: fakeCustomers(opts.Customers, products, sales, last3, prev3),
		Products:  fakeProducts(products, opts.Customers, opts.Months, sales, last3, prev3),
		Sales:     sales,
		Basket:    fakeBasket(products, opts.Customers, sales),
		Seasonal:  fakeSeasonal(products, sales),
	}
}

func seasonalFactor(month, peak int) float64 {
	d := math.Abs(float64(month - peak))
	if d > 6 {
		d = 12 - d
	}
	return 1.4 - d/6*0.7
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func growth(recent, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	g := round((recent-previous)/previous*100, 1)
	return &g
}

func fakeKPIs(months []time.Time, sales []SalesMonthlyModel) []KPISummaryModel {
	type agg struct {
		revenue   float64
		orders    int64
		customers map[string]struct{}
		products  map[string]struct{}
	}
	byMonth := map[string]*agg{}
	for _, s := range sales {
		a, ok := byMonth[s.YearMonth]
		if !ok {
			a = &agg{customers: map[string]struct{}{}, products: map[string]struct{}{}}
			byMonth[s.YearMonth] = a
		}
		a.revenue += s.Revenue
		a.orders++
		a.customers[s.CustomerID] = struct{}{}
		a.products[s.ProductCode] = struct{}{}
	}

	now := time.Now().UTC()
	out := make([]KPISummaryModel, 0, len(months))
	var prev *KPISummaryModel
	for _, m := range months {
		a, ok := byMonth[m.Format("2006-01")]
		if !ok {
			continue
		}
		k := KPISummaryModel{
			ReportMonth:     m,
			TotalRevenue:    round(a.revenue, 2),
			TotalOrders:     a.orders,
			ActiveCustomers: int64(len(a.customers)),
			ActiveProducts:  int64(len(a.products)),
			LastUpdated:     &now,
		}
		if prev != nil {
			k.RevenueGrowthMoMPct = growth(k.TotalRevenue, prev.TotalRevenue)
			k.OrdersGrowthMoMPct = growth(float64(k.TotalOrders), float64(prev.TotalOrders))
		}
		out = append(out, k)
		prev = &out[len(out)-1]
	}
	return out
}

func fakeCustomers(n int, products []fakeProduct, sales []SalesMonthlyModel, last3, prev3 string) []CustomerAnalyticsModel {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.code] = p.name
	}
	type agg struct {
		total, recent, previous float64
		byProduct               map[string]float64
	}
	byCustomer := map[string]*agg{}
	for _, s := range sales {
		a, ok := byCustomer[s.CustomerID]
		if !ok {
			a = &agg{byProduct: map[string]float64{}}
			byCustomer[s.CustomerID] = a
		}
		a.total += s.Revenue
		a.byProduct[s.ProductCode] += s.Revenue
		switch {
		case s.YearMonth >= last3:
			a.recent += s.Revenue
		case s.YearMonth >= prev3:
			a.previous += s.Revenue
		}
	}

	out := make([]CustomerAnalyticsModel, 0, n)
	for id, a := range byCustomer {
		m := CustomerAnalyticsModel{
			CustomerID:         id,
			LifetimeRevenue:    round(a.total, 2),
			RevenueLast3Months: round(a.recent, 2),
			GrowthStatus:       "Stable",
			ChurnRisk:          "Low Risk",
		}
		if g := growth(a.recent, a.previous); g != nil {
			switch {
			case *g > 10:
				m.GrowthStatus = "Growing"
			case *g < -10:
				m.GrowthStatus = "Declining"
				m.ChurnRisk = "Medium Risk"
			}
		}
		if a.recent == 0 {
			m.GrowthStatus = "Inactive"
			m.ChurnRisk = "High Risk"
		}
		var fav string
		for code, rev := range a.byProduct {
			if fav == "" || rev > a.byProduct[fav] || (rev == a.byProduct[fav] && code < fav) {
				fav = code
			}
		}
		if fav != "" {
			name := names[fav]
			m.FavoriteProduct = &name
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].LifetimeRevenue > out[j].LifetimeRevenue })
	for i := range out {
		switch pct := float64(i) / float64(len(out)); {
		case pct < 0.1:
			out[i].Segment = "VIP"
		case pct < 0.3:
			out[i].Segment = "Premium"
		case pct < 0.7:
			out[i].Segment = "Regular"
		default:
			out[i].Segment = "Occasional"
		}
	}
	return out
}

func fakeProducts(products []fakeProduct, customers, months int, sales []SalesMonthlyModel, last3, prev3 string) []ProductAnalyticsModel {
	type agg struct {
		revenue, qty, recent, previous float64
		buyers                         map[string]float64
		byMonth                        [13]float64
	}
	byCode := map[string]*agg{}
	for _, s := range sales {
		a, ok := byCode[s.ProductCode]
		if !ok {
			a = &agg{buyers: map[string]float64{}}
			byCode[s.ProductCode] = a
		}
		a.revenue += s.Revenue
		a.qty += s.QuantitySold
		a.buyers[s.CustomerID] += s.QuantitySold
		t, _ := time.Parse("2006-01", s.YearMonth)
		a.byMonth[t.Month()] += s.QuantitySold
		switch {
		case s.YearMonth >= last3:
			a.recent += s.QuantitySold
		case s.YearMonth >= prev3:
			a.previous += s.QuantitySold
		}
	}

	out := make([]ProductAnalyticsModel, 0, len(products))
	for _, p := range products {
		a, ok := byCode[p.code]
		if !ok {
			continue
		}
		m := ProductAnalyticsModel{
			Code:                p.code,
			Name:                p.name,
			Category:            p.category,
			TotalRevenue:        round(a.revenue, 2),
			TotalQuantity:       round(a.qty, 1),
			AvgMonthlyQuantity:  round(a.qty/float64(months), 1),
			QuantityLast3Months: round(a.recent, 1),
			GrowthPct:           growth(a.recent, a.previous),
			PenetrationPct:      round(float64(len(a.buyers))/float64(customers)*100, 1),
			TrendDirection:      "Stable",
		}
		if m.GrowthPct != nil {
			switch {
			case *m.GrowthPct > 20:
				m.TrendDirection = "Strong Growth"
			case *m.GrowthPct > 5:
				m.TrendDirection = "Moderate Growth"
			case *m.GrowthPct < -5:
				m.TrendDirection = "Declining"
			}
		}
		peak := 1
		for mo := 2; mo <= 12; mo++ {
			if a.byMonth[mo] > a.byMonth[peak] {
				peak = mo
			}
		}
		m.PeakMonth = &peak

		var top string
		for id, q := range a.buyers {
			if top == "" || q > a.buyers[top] || (q == a.buyers[top] && id < top) {
				top = id
			}
		}
		m.TopCustomer = &top
		m.TopCustomerQty = round(a.buyers[top], 1)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TotalRevenue > out[j].TotalRevenue })
	for i := range out {
		out[i].RankByRevenue = int64(i + 1)
		out[i].PercentileRank = round(1-float64(i)/float64(len(out)), 3)
	}
	return out
}

func fakeSeasonal(products []fakeProduct, sales []SalesMonthlyModel) []SeasonalPatternModel {
	type cell struct{ sum, n float64 }
	grid := map[string]*[13]cell{}
	for _, s := range sales {
		g, ok := grid[s.ProductCode]
		if !ok {
			g = &[13]cell{}
			grid[s.ProductCode] = g
		}
		t, _ := time.Parse("2006-01", s.YearMonth)
		g[t.Month()].sum += s.QuantitySold
		g[t.Month()].n++
	}

	var out []SeasonalPatternModel
	for _, p := range products {
		g, ok := grid[p.code]
		if !ok {
			continue
		}
		var total, months float64
		for mo := 1; mo <= 12; mo++ {
			if g[mo].n > 0 {
				total += g[mo].sum / g[mo].n
				months++
			}
		}
		overall := total / months
		for mo := 1; mo <= 12; mo++ {
			if g[mo].n == 0 {
				continue
			}
			avg := g[mo].sum / g[mo].n
			out = append(out, SeasonalPatternModel{
				ProductCode:      p.code,
				Month:            mo,
				AvgQuantity:      round(avg, 1),
				SeasonalityIndex: round(avg/overall, 2),
			})
		}
	}
	return out
}

func fakeBasket(products []fakeProduct, customers int, sales []SalesMonthlyModel) []BasketPairModel {
	buyers := map[string]map[string]struct{}{}
	for _, s := range sales {
		if buyers[s.ProductCode] == nil {
			buyers[s.ProductCode] = map[string]struct{}{}
		}
		buyers[s.ProductCode][s.CustomerID] = struct{}{}
	}

	var out []BasketPairModel
	for i, a := range products {
		for _, b := range products[i+1:] {
			ba, bb := buyers[a.code], buyers[b.code]
			if len(ba) == 0 || len(bb) == 0 {
				continue
			}
			both := 0
			for id := range ba {
				if _, ok := bb[id]; ok {
					both++
				}
			}
			if both < 2 {
				continue
			}
			confidence := float64(both) / float64(len(ba)) * 100
			lift := confidence / (float64(len(bb)) / float64(customers) * 100)
			out = append(out, BasketPairModel{
				ProductACode:         a.code,
				ProductAName:         a.name,
				ProductBCode:         b.code,
				ProductBName:         b.name,
				CategoryRelationship: a.category + " - " + b.category,
				SupportPct:           round(float64(both)/float64(customers)*100, 2),
				ConfidencePct:        round(confidence, 1),
				Lift:                 round(lift, 2),
				AssociationStrength:  associationStrength(lift),
				BundleScore:          round(math.Min(100, lift*30+confidence*0.4), 1),
				AvgBundleRevenue:     round((a.price+b.price)*10, 2),
				BundleName:           a.name + " + " + b.name,
			})
		}
	}
	return out
}

func associationStrength(lift float64) string {
	switch {
	case lift >= 2:
		return "Very Strong"
	case lift >= 1.5:
		return "Strong"
	case lift >= 1.2:
		return "Moderate"
	default:
		return "Weak"
	}
}

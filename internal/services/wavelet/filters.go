package wavelet

import (
	"sort"
	"strings"
)

// decompositionLow holds the low-pass decomposition filters. The high-pass
// filter is derived as the quadrature mirror.
var decompositionLow = map[string][]float64{
	"haar": {0.7071067811865476, 0.7071067811865476},
	"db1":  {0.7071067811865476, 0.7071067811865476},
	"db2":  {-0.12940952255126037, 0.2241438680420134, 0.8365163037378079, 0.48296291314453416},
	"db3": {
		0.03522629188570953, -0.08544127388202666, -0.13501102001025458,
		0.45987750211849154, 0.8068915093110925, 0.33267055295008263,
	},
	"db4": {
		-0.010597401785069032, 0.0328830116668852, 0.030841381835560764, -0.18703481171909309,
		-0.027983769416859854, 0.6308807679298589, 0.7148465705529157, 0.2303778133088965,
	},
	"sym2": {-0.12940952255126037, 0.2241438680420134, 0.8365163037378079, 0.48296291314453416},
	"coif1": {
		-0.01565572813546454, -0.0727326195128539, 0.38486484686420286,
		0.8525720202122554, 0.3378976624578092, -0.0727326195128539,
	},
}

// Families lists the supported wavelet names in sorted order.
func Families() []string {
	out := make([]string, 0, len(decompositionLow))
	for name := range decompositionLow {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// filterBank returns the low and high-pass decomposition filters of family.
func filterBank(family string) (lo, hi []float64, ok bool) {
	lo, ok = decompositionLow[strings.ToLower(family)]
	if !ok {
		return nil, nil, false
	}
	f := len(lo)
	hi = make([]float64, f)
	for k := 0; k < f; k++ {
		v := lo[f-1-k]
		if k%2 == 0 {
			v = -v
		}
		hi[k] = v
	}
	return lo, hi, true
}

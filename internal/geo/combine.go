package geo

// DefaultZipCap is the largest zip filter the search endpoint accepts.
const DefaultZipCap = 993

// Combine merges the radius and state zip sets into one filter. When both
// are non-empty the result is their intersection in geoZips order; when one
// is empty the other is used as is. The result is cut to at most limit
// entries and truncated reports whether anything was dropped. A nil result
// means no geographic restriction.
func Combine(geoZips, stateZips []string, limit int) (zips []string, truncated bool) {
	switch {
	case len(geoZips) > 0 && len(stateZips) > 0:
		inState := make(map[string]struct{}, len(stateZips))
		for _, z := range stateZips {
			inState[z] = struct{}{}
		}
		for _, z := range geoZips {
			if _, ok := inState[z]; ok {
				zips = append(zips, z)
			}
		}
	case len(geoZips) > 0:
		zips = append([]string(nil), geoZips...)
	case len(stateZips) > 0:
		zips = append([]string(nil), stateZips...)
	default:
		return nil, false
	}
	if limit > 0 && len(zips) > limit {
		return zips[:limit], true
	}
	return zips, false
}

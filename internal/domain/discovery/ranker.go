package discovery

import "sort"

// RankByDistance orders nearest first, ties by sitter id.
func RankByDistance(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DistanceMeters != b.DistanceMeters {
			return a.DistanceMeters < b.DistanceMeters
		}
		return a.Sitter.ID < b.Sitter.ID
	})
}

// RankByRating orders best rated first, ties by sitter id.
func RankByRating(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Sitter.AverageRating != b.Sitter.AverageRating {
			return a.Sitter.AverageRating > b.Sitter.AverageRating
		}
		return a.Sitter.ID < b.Sitter.ID
	})
}

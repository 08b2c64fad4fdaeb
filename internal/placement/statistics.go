package placement

import "sort"

// Offer is the part of a notice the aggregator reads.
type Offer struct {
	PackageOffered string
	JobType        JobType
}

// CompanyCount is the number of students placed at one company.
type CompanyCount struct {
	Company string
	Count   int64
}

// JobTypeCount is the number of notices offering one job type.
type JobTypeCount struct {
	JobType JobType
	Count   int64
}

// Statistics summarises placement outcomes and published offers.
type Statistics struct {
	TotalStudents       int64
	PlacedStudents      int64
	NotPlacedStudents   int64
	PlacementPercentage float64
	CompaniesStats      []CompanyCount
	AveragePackage      float64
	JobTypeStats        []JobTypeCount
}

// Summarize derives placement statistics from every student placement and every notice offer.
func Summarize(placements []Placement, offers []Offer) Statistics {
	stats := Statistics{
		TotalStudents:  int64(len(placements)),
		CompaniesStats: []CompanyCount{},
		JobTypeStats:   []JobTypeCount{},
	}

	companies := map[string]int64{}
	for _, p := range placements {
		switch p.Status {
		case StatusPlaced:
			stats.PlacedStudents++
			if name := p.CompanyName(); name != "" {
				companies[name]++
			}
		case StatusNotPlaced:
			// derived from the total below
		default:
		}
	}
	stats.NotPlacedStudents = stats.TotalStudents - stats.PlacedStudents
	if stats.TotalStudents > 0 {
		stats.PlacementPercentage = float64(stats.PlacedStudents) / float64(stats.TotalStudents) * 100
	}

	for name, count := range companies {
		stats.CompaniesStats = append(stats.CompaniesStats, CompanyCount{Company: name, Count: count})
	}
	sort.Slice(stats.CompaniesStats, func(i, j int) bool {
		a, b := stats.CompaniesStats[i], stats.CompaniesStats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Company < b.Company
	})

	jobTypes := map[JobType]int64{}
	var sum float64
	var parsed int
	for _, offer := range offers {
		if value, ok := ParsePackage(offer.PackageOffered); ok {
			sum += value
			parsed++
		}

		switch offer.JobType {
		case JobTypeFullTime, JobTypeInternship, JobTypeInternshipPlusFTE, JobTypeContract:
			jobTypes[offer.JobType]++
		default:
			// unknown job types are left out of the distribution
		}
	}
	if parsed > 0 {
		stats.AveragePackage = sum / float64(parsed)
	}

	for jobType, count := range jobTypes {
		stats.JobTypeStats = append(stats.JobTypeStats, JobTypeCount{JobType: jobType, Count: count})
	}
	sort.Slice(stats.JobTypeStats, func(i, j int) bool {
		a, b := stats.JobTypeStats[i], stats.JobTypeStats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.JobType < b.JobType
	})

	return stats
}

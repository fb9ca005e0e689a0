package domain

// ReclamationStatistics summarizes a set of reclamations for dashboards.
type ReclamationStatistics struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
	Rejected   int
	ByPriority map[Priority]int
}

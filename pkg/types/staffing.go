package types

// StageStaffing is the staffing plan for one warehouse pipeline stage.
type StageStaffing struct {
	StaffCount        int     `json:"staff_count"`
	ThroughputPerHour float64 `json:"throughput_per_hour"`
}

// StaffingProfile is the per-stage staffing plan stored as JSONB on locations.
type StaffingProfile struct {
	Picking  StageStaffing `json:"picking"`
	Packing  StageStaffing `json:"packing"`
	Shipping StageStaffing `json:"shipping"`
}

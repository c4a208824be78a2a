package balance

type BalanceResponse struct {
	LeaveType string `json:"leave_type"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Total     int    `json:"total_balance"`
	Used      int    `json:"used_balance"`
	Remaining int    `json:"remaining_balance"`
}

type LeaveTypeResponse struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	DefaultDays int    `json:"default_days"`
}

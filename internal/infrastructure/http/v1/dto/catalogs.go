package dto

// CreateOrganizationRequest creates an organization catalog entry.
type CreateOrganizationRequest struct {
	Name            string  `json:"name" binding:"required"`
	PaymeBusinessID *string `json:"paymeBusinessId"`
	ArrytToken      *string `json:"arrytToken"`
	WorkStartTime   string  `json:"workStartTime"`
	WorkEndTime     string  `json:"workEndTime"`
}

// UpdateOrganizationRequest updates an organization catalog entry.
type UpdateOrganizationRequest struct {
	Name            string  `json:"name" binding:"required"`
	PaymeBusinessID *string `json:"paymeBusinessId"`
	ArrytToken      *string `json:"arrytToken"`
	WorkStartTime   string  `json:"workStartTime"`
	WorkEndTime     string  `json:"workEndTime"`
	Active          bool    `json:"active"`
	Version         int     `json:"version" binding:"required,min=1"`
}

// CreateTerminalRequest creates a terminal catalog entry.
type CreateTerminalRequest struct {
	OrganizationID     string   `json:"organizationId" binding:"required,uuid"`
	Name               string   `json:"name" binding:"required"`
	IikoID             *string  `json:"iikoId"`
	ClickServiceIDs    []string `json:"clickServiceIds"`
	PaymeMerchantIDs   []string `json:"paymeMerchantIds"`
	YandexRestaurantID *string  `json:"yandexRestaurantId"`
}

// UpdateTerminalRequest updates a terminal catalog entry.
type UpdateTerminalRequest struct {
	Name               string   `json:"name" binding:"required"`
	IikoID             *string  `json:"iikoId"`
	ClickServiceIDs    []string `json:"clickServiceIds"`
	PaymeMerchantIDs   []string `json:"paymeMerchantIds"`
	YandexRestaurantID *string  `json:"yandexRestaurantId"`
	Active             bool     `json:"active"`
	Version            int      `json:"version" binding:"required,min=1"`
}

// CreateStatusRequest creates a report-status catalog entry.
type CreateStatusRequest struct {
	Code      string `json:"code" binding:"required"`
	Label     string `json:"label" binding:"required"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
}

// UpdateStatusRequest updates a report-status catalog entry.
type UpdateStatusRequest struct {
	Label     string `json:"label" binding:"required"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
	Active    bool   `json:"active"`
	Version   int    `json:"version" binding:"required,min=1"`
}

// ListTerminalsRequest filters the terminal list.
type ListTerminalsRequest struct {
	OrganizationID string `form:"organizationId" binding:"omitempty,uuid"`
	ActiveOnly     bool   `form:"activeOnly"`
}

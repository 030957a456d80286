package dto

type CreateReportRequest struct {
	CategoryID  ID       `json:"category_id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=5000"`
	PositionLat float64  `json:"position_lat" validate:"latitude"`
	PositionLng float64  `json:"position_lng" validate:"longitude"`
	Photos      []string `json:"photos" validate:"required,min=1,max=3,dive,url"`
	IsAnonymous bool     `json:"is_anonymous"`
}

// ReviewReportRequest is the public relations decision on a pending report.
type ReviewReportRequest struct {
	Status     string  `json:"status" validate:"required"`
	Note       *string `json:"note"`
	CategoryID *ID     `json:"categoryId"`
	OfficerID  *ID     `json:"officerId"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note"`
}

type AssignMaintainerRequest struct {
	MaintainerID ID `json:"maintainer_id" validate:"required"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	Internal bool   `json:"internal"`
}

package request

type Comment struct {
	Body     string `json:"body" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parentId"`
}

type ModerateComment struct {
	Status string `json:"status" binding:"required,oneof=VISIBLE HIDDEN"`
}

package request

type Tag struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
	Slug string `json:"slug" binding:"omitempty,min=1,max=50"`
}

package request

type UpdateProfile struct {
	Name      string            `json:"name" binding:"omitempty,min=2,max=100"`
	Bio       string            `json:"bio" binding:"max=500"`
	AvatarURL string            `json:"avatarUrl"`
	Links     map[string]string `json:"links"`
}

type UpdateRole struct {
	Role string `json:"role" binding:"required,oneof=ADMIN EDITOR AUTHOR"`
}

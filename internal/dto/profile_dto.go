package dto

type SaveProfileRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"max=50"`
	City    string `json:"city" validate:"max=100"`
	Area    string `json:"area" validate:"max=100"`
	Pincode string `json:"pincode" validate:"max=20"`
	Address string `json:"address"`
	Avatar  string `json:"avatar" validate:"omitempty,url,max=1024"`
}

package respond

// RefreshTokenRespond carries a rotated token pair.
type RefreshTokenRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

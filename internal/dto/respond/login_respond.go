package respond

// LoginRespond is returned on register and login.
type LoginRespond struct {
	User         UserRespond `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

package session

// UserProfile mirrors the account record returned by the backend.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// DisplayName prefers the full name and falls back to the username.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// LoginResult is a successful credential exchange: the minted bearer token
// and the profile the backend returned alongside it.
type LoginResult struct {
	Token   string
	Profile *UserProfile
}

// DegradedProfile rebuilds the minimal profile available from decoded
// claims, used when the authoritative profile fetch fails. Only the
// username survives the degradation.
func DegradedProfile(claims *Claims) *UserProfile {
	p := &UserProfile{}
	if claims != nil {
		p.Username = claims.Username
	}
	return p
}

package stores

// Storage keys making up the persisted namespace. The cleanup target list
// in the root config references these by value; changing a key here
// without updating the default targets leaves forensic residue behind.
const (
	KeyAttempts     = "login_attempts"
	KeyBlacklist    = "token_blacklist"
	KeyToken        = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyExpiration   = "token_expiration"
	KeyCachedIP     = "user_ip"
	KeyCachedGeo    = "user_geo"
)

// AttemptRecord is one authentication attempt, appended on every failed
// or gated login. Timestamps are ms epoch to survive JSON round-trips
// without precision loss.
type AttemptRecord struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	Identifier string `json:"identifier"`
	SourceAddr string `json:"source_address"`
	ClientSig  string `json:"client_signature"`
	GeoHint    string `json:"geo_hint,omitempty"`
}

// BlacklistEntry marks a retired token fingerprint. The raw token is
// never stored, only its sha256 hex digest.
type BlacklistEntry struct {
	ID           string `json:"id"`
	TokenHash    string `json:"token_hash"`
	Timestamp    int64  `json:"timestamp"`
	DeviceInfo   string `json:"device_info"`
	LogoutReason string `json:"logout_reason,omitempty"`
}

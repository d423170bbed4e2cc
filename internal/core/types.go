package core

import "time"

func Float64Ptr(v float64) *float64 { return &v }

func Int64Ptr(v int64) *int64 { return &v }

func StringPtr(v string) *string { return &v }

func BoolPtr(v bool) *bool { return &v }

func TimePtr(v time.Time) *time.Time { return &v }

// User is the gateway account the session is authenticated as.
// ID and Username are mandatory; everything else is wire-optional.
type User struct {
	ID           int64
	Username     string
	DisplayName  *string
	Email        *string
	Role         *int64
	Status       *int64
	Group        *string
	Quota        *float64
	UsedQuota    *float64
	RequestCount *int64
	AffCode      *string
	InviterID    *int64
}

// QuotaRemainingPercent returns remaining quota as 0-100, or -1 when the
// account does not carry enough data to compute it.
func (u User) QuotaRemainingPercent() float64 {
	if u.Quota == nil || *u.Quota <= 0 {
		return -1
	}
	used := 0.0
	if u.UsedQuota != nil {
		used = *u.UsedQuota
	}
	total := *u.Quota + used
	if total <= 0 {
		return -1
	}
	pct := *u.Quota / total * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Token is an API key issued by the gateway.
type Token struct {
	ID             int64
	Name           *string
	Key            *string
	Status         *int64
	Group          *string
	RemainQuota    *float64
	UsedQuota      *float64
	UnlimitedQuota *bool
	ModelLimits    *string
	CreatedAt      *time.Time
	AccessedAt     *time.Time
	ExpiresAt      *time.Time // nil when the token never expires
}

// LogItem is one request-log row from the gateway's usage log.
type LogItem struct {
	ID               int64
	Type             *int64
	Username         *string
	TokenName        *string
	ModelName        *string
	ChannelID        *int64
	Quota            *float64
	PromptTokens     *int64
	CompletionTokens *int64
	Content          *string
	CreatedAt        *time.Time
}

// Channel is an upstream relay channel (admin-only listing).
type Channel struct {
	ID           int64
	Name         *string
	Type         *int64
	Status       *int64
	Group        *string
	BaseURL      *string
	Models       *string
	Priority     *int64
	Weight       *int64
	ResponseTime *int64
	UsedQuota    *float64
	Balance      *float64
}

// Redemption is a top-up redemption code.
type Redemption struct {
	ID         int64
	Name       *string
	Key        *string
	Status     *int64
	Quota      *float64
	Count      *int64
	UsedUserID *int64
	CreatedAt  *time.Time
	RedeemedAt *time.Time
}

// QuotaDataPoint is one raw timestamped usage row from the dashboard data
// endpoint. CreatedAt is its identity; rows without a usable timestamp
// cannot be bucketed and are discarded at parse time.
type QuotaDataPoint struct {
	CreatedAt time.Time
	Quota     float64
	TokenUsed float64
	Count     float64
	ModelName *string
	Username  *string
}

// TopupRecord is one completed or pending top-up order.
type TopupRecord struct {
	ID            int64
	TradeNo       *string
	Amount        *float64
	Quota         *float64
	Status        *string
	PaymentMethod *string
	CreatedAt     *time.Time
}

// TopupInfo describes the gateway's top-up offer (single object, not a list).
type TopupInfo struct {
	MinTopup   int64
	Price      *float64
	TopupRatio *float64
	TopupLink  *string
}

// PayMethod is one payment option offered by the gateway.
type PayMethod struct {
	Type     string
	Name     *string
	Color    *string
	MinTopup *int64
}

// CreemProduct is one purchasable product from the Creem storefront.
type CreemProduct struct {
	ID       string
	Name     *string
	Price    *float64
	Quota    *float64
	Currency *string
	Discount *float64
}

package parsers

import (
	"time"

	"github.com/janekbaraniewski/gateusage/internal/core"
)

// Per-entity row parsers. Wire fields use the gateway's flattened
// underscore convention (remain_quota, expired_time, base_url...); a few
// fields carry alternate spellings across gateway versions, tried in order.

func ParseUser(row map[string]any) (core.User, bool) {
	id, okID := GetInt(row, "id")
	username, okName := GetString(row, "username")
	if !okID || !okName || username == "" {
		return core.User{}, false
	}
	return core.User{
		ID:           id,
		Username:     username,
		DisplayName:  optString(row, "display_name"),
		Email:        optString(row, "email"),
		Role:         optInt(row, "role"),
		Status:       optInt(row, "status"),
		Group:        optString(row, "group"),
		Quota:        optNumber(row, "quota"),
		UsedQuota:    optNumber(row, "used_quota"),
		RequestCount: optInt(row, "request_count"),
		AffCode:      optString(row, "aff_code"),
		InviterID:    optInt(row, "inviter_id"),
	}, true
}

func ParseToken(row map[string]any) (core.Token, bool) {
	id, ok := GetInt(row, "id")
	if !ok {
		return core.Token{}, false
	}
	return core.Token{
		ID:             id,
		Name:           optString(row, "name"),
		Key:            optString(row, "key"),
		Status:         optInt(row, "status"),
		Group:          optString(row, "group"),
		RemainQuota:    optNumber(row, "remain_quota"),
		UsedQuota:      optNumber(row, "used_quota"),
		UnlimitedQuota: optBool(row, "unlimited_quota"),
		ModelLimits:    optString(row, "model_limits"),
		CreatedAt:      optTime(row, "created_time"),
		AccessedAt:     optTime(row, "accessed_time"),
		ExpiresAt:      optTime(row, "expired_time"),
	}, true
}

func ParseLogItem(row map[string]any) (core.LogItem, bool) {
	id, ok := GetInt(row, "id")
	if !ok {
		return core.LogItem{}, false
	}
	return core.LogItem{
		ID:               id,
		Type:             optInt(row, "type"),
		Username:         optString(row, "username"),
		TokenName:        optString(row, "token_name"),
		ModelName:        optString(row, "model_name"),
		ChannelID:        optInt(row, "channel"),
		Quota:            optNumber(row, "quota"),
		PromptTokens:     optInt(row, "prompt_tokens"),
		CompletionTokens: optInt(row, "completion_tokens"),
		Content:          optString(row, "content"),
		CreatedAt:        optTime(row, "created_at", "created_time"),
	}, true
}

func ParseChannel(row map[string]any) (core.Channel, bool) {
	id, ok := GetInt(row, "id")
	if !ok {
		return core.Channel{}, false
	}
	return core.Channel{
		ID:           id,
		Name:         optString(row, "name"),
		Type:         optInt(row, "type"),
		Status:       optInt(row, "status"),
		Group:        optString(row, "group"),
		BaseURL:      optString(row, "base_url"),
		Models:       optString(row, "models"),
		Priority:     optInt(row, "priority"),
		Weight:       optInt(row, "weight"),
		ResponseTime: optInt(row, "response_time"),
		UsedQuota:    optNumber(row, "used_quota"),
		Balance:      optNumber(row, "balance"),
	}, true
}

func ParseRedemption(row map[string]any) (core.Redemption, bool) {
	id, ok := GetInt(row, "id")
	if !ok {
		return core.Redemption{}, false
	}
	return core.Redemption{
		ID:         id,
		Name:       optString(row, "name"),
		Key:        optString(row, "key"),
		Status:     optInt(row, "status"),
		Quota:      optNumber(row, "quota"),
		Count:      optInt(row, "count"),
		UsedUserID: optInt(row, "used_user_id"),
		CreatedAt:  optTime(row, "created_time"),
		RedeemedAt: optTime(row, "redeemed_time"),
	}, true
}

func ParseQuotaDataPoint(row map[string]any) (core.QuotaDataPoint, bool) {
	createdAt, ok := GetTime(row, "created_at")
	if !ok {
		return core.QuotaDataPoint{}, false
	}
	point := core.QuotaDataPoint{
		CreatedAt: createdAt,
		ModelName: optString(row, "model_name"),
		Username:  optString(row, "username"),
	}
	if quota, ok := GetNumber(row, "quota"); ok {
		point.Quota = quota
	}
	if tokens, ok := GetNumber(row, "token_used"); ok {
		point.TokenUsed = tokens
	}
	if count, ok := GetNumber(row, "count"); ok {
		point.Count = count
	}
	return point, true
}

func ParseTopupRecord(row map[string]any) (core.TopupRecord, bool) {
	id, ok := GetInt(row, "id")
	if !ok {
		return core.TopupRecord{}, false
	}
	return core.TopupRecord{
		ID:            id,
		TradeNo:       optString(row, "trade_no"),
		Amount:        optNumber(row, "money", "amount"),
		Quota:         optNumber(row, "quota"),
		Status:        optString(row, "status"),
		PaymentMethod: optString(row, "payment_method"),
		CreatedAt:     optTime(row, "create_time", "created_time"),
	}, true
}

func ParseTopupInfo(row map[string]any) (core.TopupInfo, bool) {
	minTopup, ok := GetInt(row, "min_topup")
	if !ok {
		return core.TopupInfo{}, false
	}
	return core.TopupInfo{
		MinTopup:   minTopup,
		Price:      optNumber(row, "price"),
		TopupRatio: optNumber(row, "topup_ratio"),
		TopupLink:  optString(row, "topup_link"),
	}, true
}

func ParsePayMethod(row map[string]any) (core.PayMethod, bool) {
	payType, ok := GetString(row, "type")
	if !ok || payType == "" {
		return core.PayMethod{}, false
	}
	return core.PayMethod{
		Type:     payType,
		Name:     optString(row, "name"),
		Color:    optString(row, "color"),
		MinTopup: optInt(row, "min_topup"),
	}, true
}

func ParseCreemProduct(row map[string]any) (core.CreemProduct, bool) {
	id, ok := GetString(row, "id")
	if !ok || id == "" {
		return core.CreemProduct{}, false
	}
	return core.CreemProduct{
		ID:       id,
		Name:     optString(row, "name"),
		Price:    optNumber(row, "price"),
		Quota:    optNumber(row, "quota"),
		Currency: optString(row, "currency"),
		Discount: optNumber(row, "discount"),
	}, true
}

func optString(row map[string]any, keys ...string) *string {
	for _, key := range keys {
		if v, ok := GetString(row, key); ok && v != "" {
			return core.StringPtr(v)
		}
	}
	return nil
}

func optNumber(row map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if v, ok := GetNumber(row, key); ok {
			return core.Float64Ptr(v)
		}
	}
	return nil
}

func optInt(row map[string]any, keys ...string) *int64 {
	for _, key := range keys {
		if v, ok := GetInt(row, key); ok {
			return core.Int64Ptr(v)
		}
	}
	return nil
}

func optBool(row map[string]any, keys ...string) *bool {
	for _, key := range keys {
		if v, ok := GetBool(row, key); ok {
			return core.BoolPtr(v)
		}
	}
	return nil
}

func optTime(row map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		if v, ok := GetTime(row, key); ok {
			return core.TimePtr(v)
		}
	}
	return nil
}

// Package logging はログ関連のユーティリティを提供する。
package logging

import "strings"

// MaskEmail はメールアドレスのローカル部をマスキングする。
// 先頭2文字 + マスク、ドメイン部はそのまま残す。
// 例: maria.silva@escola.br → ma*********@escola.br
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskEmail(email string, enabled bool) string {
	if !enabled {
		return email
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return MaskPartial(email, 2, 0, '*')
	}
	return MaskPartial(email[:at], 2, 0, '*') + email[at:]
}

// MaskToken はトークンを先頭4文字のみ残してマスキングする。
// 長さを推測されないよう、マスク部分は固定長とする。
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) <= 4 {
		return "****"
	}
	return string(runes[:4]) + "****"
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, 0, length)
	result = append(result, runes[:keepPrefix]...)
	for i := keepPrefix; i < length-keepSuffix; i++ {
		result = append(result, maskChar)
	}
	result = append(result, runes[length-keepSuffix:]...)

	return string(result)
}

// Masker はマスキング設定を保持する構造体。
type Masker struct {
	enabled bool
}

// NewMasker は新しいMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

// Email はメールアドレスをマスキングする。
func (m *Masker) Email(email string) string {
	return MaskEmail(email, m.enabled)
}

// IsEnabled はマスキングが有効かどうかを返す。
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

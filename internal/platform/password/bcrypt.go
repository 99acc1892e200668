// Package password は保存前にパスワードへ適用する一方向ハッシュを提供します。
package password

import "golang.org/x/crypto/bcrypt"

// BcryptHasher はbcryptでパスワードをハッシュ化します。
// 呼び出しごとに新しいソルトを使うため、同じ平文でも結果は毎回異なります。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher は指定コストのハッシャーを生成します。
// 範囲外のコストは bcrypt.DefaultCost にフォールバックします。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文のbcryptハッシュを返します。
func (h *BcryptHasher) Hash(plain string) (string, error) {
	// エラーのラップは呼び出し側（usecase）で行う
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare は平文がHashで生成したハッシュと一致するかを返します。
func (h *BcryptHasher) Compare(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

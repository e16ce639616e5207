package querycache

import (
	"net/url"
	"strings"
)

// Key はキャッシュエントリを識別するキー。
// 同じResourceとParamsを持つKeyは同一のエントリを指す。
type Key struct {
	Resource string
	Params   url.Values
}

// NewKey は新しいKeyを生成する。
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params}
}

// String はキーの正規化表現を返す。
// url.Values.Encode はパラメータ名でソートするため、構築順に依存しない。
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + "?" + k.Params.Encode()
}

// under はキーが指定リソース配下にあるかを判定する。
func (k Key) under(resource string) bool {
	return k.Resource == resource || strings.HasPrefix(k.Resource, resource+"/")
}

package apiclient

// HTTPヘッダー
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderTraceID       = "X-Trace-ID"
	ContentTypeJSON     = "application/json"
	BearerPrefix        = "Bearer "
)

// 未認証でも表示される画面の名前。
// この画面を表示中に401を受けた場合はログイン画面へ遷移させない。
const (
	PageLogin    = "login"
	PageRegister = "register"
)

// IsEntryPage は未認証向けの画面かどうかを返す。
func IsEntryPage(name string) bool {
	return name == PageLogin || name == PageRegister
}

package apiclient

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_navigator.go -package=mocks

// Navigator は401受信時の画面遷移を担う
type Navigator interface {
	// CurrentPage は表示中の画面名を返す
	CurrentPage() string
	// RedirectToLogin はログイン画面へ遷移する
	RedirectToLogin()
}

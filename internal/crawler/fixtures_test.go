package crawler

import (
	"context"
	"fmt"
	"sync"

	"sjsage522/newsworker/internal/browser"
)

const homeURL = "https://www.yogonet.com/international/"

// homeHTML mimics the homepage: three cards inside the main container, the
// second without a kicker, the third without an image
const homeHTML = `<!DOCTYPE html>
<html>
<body>
  <div class="contenedor_general_estructura estructura_home">
    <div class="slot noticia cargada" orden="1">
      <div class="imagen">
        <a href="/international/news/2025/01/10/1-brazil-betting"><img src="https://imagenes.yogonet.com/brazil.jpg" alt=""></a>
      </div>
      <div class="volanta"> Regulation </div>
      <h2 class="titulo"><a href="/international/news/2025/01/10/1-brazil-betting">  Brazil Issues New Betting Licenses </a></h2>
    </div>
    <div class="slot noticia cargada" orden="2">
      <div class="imagen">
        <a href="/international/news/2025/01/10/2-macau"><img src="/img/macau.jpg"></a>
      </div>
      <h2 class="titulo"><a href="/international/news/2025/01/10/2-macau">Macau revenue up 5%</a></h2>
    </div>
    <div class="slot noticia" orden="3">
      <div class="volanta">Tech</div>
      <h2 class="titulo"><a href="https://other.example.com/story">iGaming Trends For 2025</a></h2>
    </div>
    <div class="slot publicidad">ad</div>
  </div>
</body>
</html>`

// emptyHomeHTML has the container but no cards
const emptyHomeHTML = `<html><body><div class="contenedor_general_estructura estructura_home"><div class="slot publicidad"></div></div></body></html>`

// countingSession records how often the session is closed
type countingSession struct {
	browser.Session
	closes      int
	navigateErr error
}

func (s *countingSession) Navigate(ctx context.Context, url string) error {
	if s.navigateErr != nil {
		return s.navigateErr
	}
	return s.Session.Navigate(ctx, url)
}

func (s *countingSession) Close() error {
	s.closes++
	return s.Session.Close()
}

// staticSession returns a counting session over html. Navigate is a no-op
// because the document is already loaded.
func staticSession(html string) *countingSession {
	s, err := browser.NewStaticSessionFromHTML(html, homeURL)
	if err != nil {
		panic(err)
	}
	return &countingSession{Session: &preloaded{StaticSession: s}}
}

type preloaded struct {
	*browser.StaticSession
}

func (p *preloaded) Navigate(ctx context.Context, url string) error {
	return nil
}

// fakeModel answers with canned responses, one per call
type fakeModel struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
	panicMsg  string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.panicMsg != "" {
		panic(m.panicMsg)
	}

	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "", fmt.Errorf("no response for call %d", i)
}

func (m *fakeModel) Name() string {
	return "fake-model"
}

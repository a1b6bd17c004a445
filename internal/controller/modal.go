package controller

// activeClass marks a visible modal, tab or tab panel.
const activeClass = "active"

// AuthModal toggles the login and register dialogs. Opening, closing
// and switching are pure class-list changes; no network is involved.
type AuthModal struct {
	login    Element
	register Element
}

func NewAuthModal(login, register Element) *AuthModal {
	return &AuthModal{login: login, register: register}
}

func (m *AuthModal) ShowLogin()     { m.login.AddClass(activeClass) }
func (m *AuthModal) ShowRegister()  { m.register.AddClass(activeClass) }
func (m *AuthModal) CloseLogin()    { m.login.RemoveClass(activeClass) }
func (m *AuthModal) CloseRegister() { m.register.RemoveClass(activeClass) }

// SwitchToRegister moves the active state from login to register.
func (m *AuthModal) SwitchToRegister() {
	m.login.RemoveClass(activeClass)
	m.register.AddClass(activeClass)
}

// SwitchToLogin moves the active state from register to login.
func (m *AuthModal) SwitchToLogin() {
	m.register.RemoveClass(activeClass)
	m.login.AddClass(activeClass)
}

// Tab couples a tab button with the name of the panel it reveals.
type Tab struct {
	Button Element
	Panel  string
}

// TabGroup activates one tab and its panel at a time within a form.
type TabGroup struct {
	tabs   []Tab
	panels map[string]Element
}

func NewTabGroup(tabs []Tab, panels map[string]Element) *TabGroup {
	return &TabGroup{tabs: tabs, panels: panels}
}

// Select handles a click on the tab revealing the named panel: every
// tab and panel is deactivated, then the clicked tab and its panel
// are activated.
func (g *TabGroup) Select(panel string) {
	for _, t := range g.tabs {
		t.Button.RemoveClass(activeClass)
	}
	for _, p := range g.panels {
		p.RemoveClass(activeClass)
	}
	for _, t := range g.tabs {
		if t.Panel == panel {
			t.Button.AddClass(activeClass)
		}
	}
	if p, ok := g.panels[panel]; ok {
		p.AddClass(activeClass)
	}
}

// ContactPopup shows a contact dialog. Closing it navigates back to
// the home page; clicking the backdrop merely hides it.
type ContactPopup struct {
	popup   Toggleable
	nav     Navigator
	homeURL string
}

func NewContactPopup(popup Toggleable, nav Navigator, homeURL string) *ContactPopup {
	return &ContactPopup{popup: popup, nav: nav, homeURL: homeURL}
}

// Open shows the popup.
func (c *ContactPopup) Open() { c.popup.Show() }

// Close handles the close button: leave for the home page.
func (c *ContactPopup) Close() { c.nav.Navigate(c.homeURL) }

// Dismiss handles a click on the popup's own backdrop (the container
// itself, not its inner content): hide without navigating.
func (c *ContactPopup) Dismiss() { c.popup.Hide() }

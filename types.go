package echofield

import (
	"github.com/a-h/templ"

	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/views"
)

// ViewFuncs holds the templ components the handlers render. DefaultViews
// fills every field; sites override individual entries to restyle pages.
type ViewFuncs struct {
	List           func(page views.ListPage) templ.Component
	Detail         func(page views.DetailPage) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(page views.AdminDashboardPage) templ.Component
	AdminPostForm  func(form views.AdminPostForm) templ.Component
	NotFound       func(lang content.Lang) templ.Component
	ServerError    func(lang content.Lang) templ.Component
}

// DefaultViews returns the components from the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		List:           views.List,
		Detail:         views.Detail,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminPostForm:  views.AdminPostFormPage,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v *ViewFuncs) fillDefaults() {
	d := DefaultViews()
	if v.List == nil {
		v.List = d.List
	}
	if v.Detail == nil {
		v.Detail = d.Detail
	}
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.AdminPostForm == nil {
		v.AdminPostForm = d.AdminPostForm
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}

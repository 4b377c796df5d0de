package main

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func card(title, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<article class="card"><h2>`+templ.EscapeString(title)+
			`</h2><p>`+templ.EscapeString(text)+`</p></article>`)
		return err
	})
}

func blob(auth, id, query string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section id="blob"><p>`+templ.EscapeString(auth)+
			`</p><p>`+templ.EscapeString(id)+`</p><p>`+templ.EscapeString(query)+`</p></section>`)
		return err
	})
}

func shell(auth string, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main><header>`+templ.EscapeString(auth)+`</header>`); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

func columns(children, analytics, team templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range []templ.Component{children, analytics, team} {
			if _, err := io.WriteString(w, `<div class="column">`); err != nil {
				return err
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		return nil
	})
}

package content

var (
	AboutMe = `I'm a computer science student who likes building software that is both **useful and fun**,
and I'm always curious about how things work behind the scenes.

Most of my projects start with a simple idea and turn into a chance to learn something new,
whether that's a different language, a new tool, or a tricky problem that needs solving.

When I'm not coding you'll usually find me reading about distributed systems, contributing to
open source, or chasing down a new challenge away from the screen.`

	HeroTagline = `I build clean, fast web applications and enjoy turning ideas into products
people actually use.`

	ContactIntro = `Have a project in mind, an internship opportunity, or just want to say hi?
My inbox is always open.`
)

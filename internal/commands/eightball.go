package commands

import (
	"math/rand"
	"strconv"

	"babelbot/internal/command"
)

var eightBallAnswers = []string{
	"It is certain.",
	"Without a doubt.",
	"Most likely.",
	"Ask again later.",
	"Better not tell you now.",
	"Don't count on it.",
	"My sources say no.",
	"Very doubtful.",
}

// EightBall picks a canned answer; each answer localizes independently.
func EightBall(deps Deps) *command.Command {
	return &command.Command{
		Name:     "8ball",
		Aliases:  []string{"eightball"},
		Scope:    command.ScopeAll,
		Category: "fun",
		Help:     "Consult the magic eight ball.",
		Run: func(ctx *command.Context) error {
			if len(ctx.Args) == 0 {
				_, err := ctx.Send(ctx.Catalog.Phrase("8ball.noquestion", "You have to ask a question first."))
				return err
			}
			n := rand.Intn(len(eightBallAnswers))
			_, err := ctx.Send(ctx.Catalog.Phrase("8ball.answers."+strconv.Itoa(n), eightBallAnswers[n]))
			return err
		},
	}
}

// Command manage runs one-off administrative tasks against the configured storage.
//
//	manage createuser -username leo -password secret123
//	manage creategroup -title "Cats" -slug cats -description "about cats"
//	manage seedposts -author leo -count 13
//	manage deletepost -id 42
//	manage clearcache
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"yatube/internal/app"
	"yatube/internal/config"
	"yatube/internal/model"
	"yatube/internal/pkg"
)

var errUnknownCommand = errors.New("unknown command")

func usage() {
	fmt.Fprintln(os.Stderr, "usage: manage <createuser|creategroup|seedposts|deletepost|clearcache> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	conf, err := config.New(".env")
	if err != nil {
		log.Fatalf("[SETUP ERROR] error when reading config: %v", err)
	}
	logger := pkg.NewLogger(conf.Log.Level, os.Stderr)

	cmd := os.Args[1]
	err = run(context.Background(), conf, logger, cmd, os.Args[2:])
	switch {
	case errors.Is(err, errUnknownCommand):
		usage()
	case err != nil:
		logger.Error(cmd+" failed", pkg.Err(err))
		os.Exit(1)
	}
}

// run 打开存储执行命令，返回前一定关闭连接
func run(ctx context.Context, conf *config.Config, logger *slog.Logger, cmd string, args []string) error {
	st, err := app.NewStorage(ctx, conf, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("storage close", pkg.Err(err))
		}
	}()

	return execute(ctx, st, app.NewServices(st, conf, logger), logger, cmd, args)
}

func execute(ctx context.Context, st *app.Storage, svc *app.Services, logger *slog.Logger, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	switch cmd {
	case "createuser":
		username := fs.String("username", "", "login name")
		password := fs.String("password", "", "password, at least 8 characters")
		if err := fs.Parse(args); err != nil {
			return err
		}

		user, err := svc.Auth.CreateUser(ctx, *username, *password)
		if err != nil {
			return err
		}
		logger.Info("user created", slog.Uint64("id", user.ID), slog.String("username", user.Username))

	case "creategroup":
		title := fs.String("title", "", "group title")
		slug := fs.String("slug", "", "url slug, letters digits - and _")
		desc := fs.String("description", "", "group description")
		if err := fs.Parse(args); err != nil {
			return err
		}

		group, err := svc.Groups.Create(ctx, *title, *slug, *desc)
		if err != nil {
			return err
		}
		logger.Info("group created", slog.Uint64("id", group.ID), slog.String("slug", group.Slug))

	case "seedposts":
		author := fs.String("author", "", "username of the author")
		count := fs.Int("count", 13, "number of posts")
		text := fs.String("text", "Тестовый пост", "post text prefix")
		if err := fs.Parse(args); err != nil {
			return err
		}

		user, err := st.Users.FindByUsername(ctx, *author)
		if err != nil {
			return fmt.Errorf("author %q: %w", *author, err)
		}
		posts := make([]*model.Post, 0, *count)
		for i := 1; i <= *count; i++ {
			posts = append(posts, &model.Post{Text: fmt.Sprintf("%s %d", *text, i), AuthorID: user.ID})
		}
		if err := svc.Posts.BulkCreate(ctx, posts); err != nil {
			return err
		}
		logger.Info("posts created", slog.String("author", user.Username), slog.Int("count", len(posts)))

	case "deletepost":
		id := fs.Uint64("id", 0, "post id")
		if err := fs.Parse(args); err != nil {
			return err
		}

		if err := svc.Posts.Delete(ctx, *id); err != nil {
			return err
		}
		logger.Info("post deleted", slog.Uint64("id", *id))

	case "clearcache":
		if err := st.Pages.Clear(ctx); err != nil {
			return err
		}
		logger.Info("page cache cleared")

	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	return nil
}

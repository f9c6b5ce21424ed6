package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Brawl345/picedit/gallery"
	"github.com/Brawl345/picedit/model"
	"github.com/Brawl345/picedit/utils"
	"github.com/Brawl345/picedit/utils/httpUtils"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var editCommand = &cli.Command{
	Name:      "edit",
	Usage:     "Edit an image with a prompt",
	ArgsUsage: "--image <path|url|data URI> --prompt <text> [--style <name>]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "Image file, http(s) URL or data URI", Required: true},
		&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "What to do with the image", Required: true},
		&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Name of a saved style"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the effect image as data URI to this file"},
	},
	Action: withEnv(func(c *cli.Context, e *env) error {
		image, err := loadImage(c.Context, c.String("image"))
		if err != nil {
			return err
		}

		result, err := e.editor.EditImage(c.Context, gallery.EditRequest{
			OriginImage: image,
			Prompt:      c.String("prompt"),
			StyleName:   c.String("style"),
		})
		if err != nil {
			return err
		}

		if output := c.String("output"); output != "" {
			if err := os.WriteFile(output, []byte(result.EffectImage), 0o644); err != nil {
				return err
			}
		}

		_, _ = fmt.Fprintf(c.App.Writer, "%s\ngallery: %s\neffect: %s\n",
			result.Message, result.GalleryID, utils.Preview(result.EffectImage, utils.PreviewLength))
		return nil
	}),
}

var generateStyleCommand = &cli.Command{
	Name:  "generate-style",
	Usage: "Let the model derive a reusable style from a message",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
		&cli.BoolFlag{Name: "save", Usage: "Store the generated style"},
	},
	Action: withEnv(func(c *cli.Context, e *env) error {
		result, err := e.editor.GenerateStyleFromMessage(c.Context, c.String("message"))
		if err != nil {
			return err
		}

		if c.Bool("save") {
			err := e.store.Exclusive(func(repos *model.Repositories) error {
				return repos.Styles.Create(&model.Style{
					Name:        result.StyleName,
					Description: c.String("message"),
					Prompt:      result.StylePrompt,
				})
			})
			if err != nil {
				return fmt.Errorf("failed to save style %q: %w", result.StyleName, err)
			}
		}

		_, _ = fmt.Fprintf(c.App.Writer, "%s\nname: %s\nprompt: %s\n", result.Message, result.StyleName, result.StylePrompt)
		return nil
	}),
}

var settingsCommand = &cli.Command{
	Name:  "settings",
	Usage: "Show or change the AI endpoint, key and model",
	Subcommands: []*cli.Command{
		{
			Name: "show",
			Action: withEnv(func(c *cli.Context, e *env) error {
				return e.store.Exclusive(func(repos *model.Repositories) error {
					setting, err := repos.Settings.GetOrCreateDefault()
					if err != nil {
						return err
					}
					printSetting(c.App.Writer, setting)
					return nil
				})
			}),
		},
		{
			Name: "set",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "endpoint"},
				&cli.StringFlag{Name: "key", EnvVars: []string{"AI_API_KEY"}},
				&cli.StringFlag{Name: "model"},
			},
			Action: withEnv(func(c *cli.Context, e *env) error {
				return e.store.Exclusive(func(repos *model.Repositories) error {
					setting, err := repos.Settings.GetOrCreateDefault()
					if err != nil {
						return err
					}
					if c.IsSet("endpoint") {
						setting.APIEndpoint = strings.TrimSpace(c.String("endpoint"))
					}
					if c.IsSet("key") {
						setting.APIKey = strings.TrimSpace(c.String("key"))
					}
					if c.IsSet("model") {
						setting.Model = strings.TrimSpace(c.String("model"))
					}
					if err := repos.Settings.Save(setting); err != nil {
						return err
					}
					printSetting(c.App.Writer, setting)
					return nil
				})
			}),
		},
	},
}

var stylesCommand = &cli.Command{
	Name:  "styles",
	Usage: "Manage saved styles",
	Subcommands: []*cli.Command{
		{
			Name: "list",
			Action: withEnv(func(c *cli.Context, e *env) error {
				return e.store.Exclusive(func(repos *model.Repositories) error {
					styles, err := repos.Styles.GetAll()
					if err != nil {
						return err
					}
					printStyles(c.App.Writer, styles)
					return nil
				})
			}),
		},
		{
			Name: "add",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "prompt", Required: true},
				&cli.StringFlag{Name: "description"},
				&cli.StringSliceFlag{Name: "tag"},
			},
			Action: withEnv(func(c *cli.Context, e *env) error {
				tags, err := json.Marshal(nonNil(c.StringSlice("tag")))
				if err != nil {
					return err
				}
				style := &model.Style{
					Name:        strings.TrimSpace(c.String("name")),
					Description: c.String("description"),
					Prompt:      c.String("prompt"),
					Tags:        string(tags),
				}
				err = e.store.Exclusive(func(repos *model.Repositories) error {
					return repos.Styles.Create(style)
				})
				if errors.Is(err, model.ErrAlreadyExists) {
					return fmt.Errorf("a style named %q already exists", style.Name)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.App.Writer, "Added style %s (%s)\n", style.Name, style.ID)
				return nil
			}),
		},
		{
			Name:      "delete",
			ArgsUsage: "<id>",
			Action: withEnv(func(c *cli.Context, e *env) error {
				id := c.Args().First()
				if id == "" {
					return errors.New("missing style id")
				}
				err := e.store.Exclusive(func(repos *model.Repositories) error {
					return repos.Styles.Delete(id)
				})
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("no style with id %s", id)
				}
				return err
			}),
		},
	},
}

var galleryCommand = &cli.Command{
	Name:  "gallery",
	Usage: "Browse and clean up past edits",
	Subcommands: []*cli.Command{
		{
			Name: "list",
			Action: withEnv(func(c *cli.Context, e *env) error {
				return e.store.Exclusive(func(repos *model.Repositories) error {
					galleries, err := repos.Galleries.GetAll()
					if err != nil {
						return err
					}
					printGalleries(c.App.Writer, galleries)
					return nil
				})
			}),
		},
		{
			Name:      "delete",
			ArgsUsage: "<id>...",
			Action: withEnv(func(c *cli.Context, e *env) error {
				ids := c.Args().Slice()
				if len(ids) == 0 {
					return errors.New("missing gallery ids")
				}
				if err := e.store.Exclusive(func(repos *model.Repositories) error {
					return repos.Galleries.BatchDelete(ids)
				}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.App.Writer, "Deleted %d gallery item(s)\n", len(ids))
				return nil
			}),
		},
		{
			Name:      "messages",
			ArgsUsage: "<id>",
			Action: withEnv(func(c *cli.Context, e *env) error {
				id := c.Args().First()
				if id == "" {
					return errors.New("missing gallery id")
				}
				return e.store.Exclusive(func(repos *model.Repositories) error {
					if _, err := repos.Galleries.Get(id); err != nil {
						return err
					}
					messages, err := repos.Messages.GetByGalleryID(id)
					if err != nil {
						return err
					}
					printMessages(c.App.Writer, messages)
					return nil
				})
			}),
		},
	},
}

var usageCommand = &cli.Command{
	Name:  "usage",
	Usage: "Show token usage and estimated cost for the current day, month or year",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "period", Value: string(utils.PeriodMonth)},
	},
	Action: withEnv(func(c *cli.Context, e *env) error {
		period, err := utils.ParsePeriod(c.String("period"))
		if err != nil {
			return err
		}
		from, to := utils.PeriodBounds(period, time.Now())

		return e.store.Exclusive(func(repos *model.Repositories) error {
			tokens, err := repos.Galleries.TokenUsage(from, to)
			if err != nil {
				return err
			}
			setting, err := repos.Settings.GetOrCreateDefault()
			if err != nil {
				return err
			}
			printUsage(c.App.Writer, period, from, to, tokens, setting.Model)
			return nil
		})
	}),
}

var versionCommand = &cli.Command{
	Name: "version",
	Action: func(c *cli.Context) error {
		info, err := utils.ReadVersionInfo()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(c.App.Writer, "picedit %s (%s %s/%s)\n", info.Revision, info.GoVersion, info.GoOS, info.GoArch)
		return nil
	},
}

// loadImage turns a file path, URL or data URI into a data URI.
func loadImage(ctx context.Context, src string) (string, error) {
	src = strings.TrimSpace(src)
	switch {
	case utils.IsDataURI(src):
		return src, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, contentType, err := httpUtils.Download(ctx, src)
		if err != nil {
			return "", fmt.Errorf("failed to download image: %w", err)
		}
		return utils.ToDataURI(data, contentType), nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if info.Size() > utils.MaxImageSize {
		return "", fmt.Errorf("image is too large (%s, max %s)",
			utils.HumanizeSize(info.Size()), utils.HumanizeSize(utils.MaxImageSize))
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return utils.ToDataURI(data, mime.TypeByExtension(strings.ToLower(filepath.Ext(src)))), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func printSetting(w io.Writer, setting *model.Setting) {
	_, _ = fmt.Fprintf(w, "endpoint: %s\nmodel: %s\nhas_api_key: %t\n", setting.APIEndpoint, setting.Model, setting.HasAPIKey())
}

func printStyles(w io.Writer, styles []model.Style) {
	if len(styles) == 0 {
		_, _ = fmt.Fprintln(w, "No styles saved")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tTAGS\tPROMPT")
	for _, style := range styles {
		var tags []string
		_ = json.Unmarshal([]byte(style.Tags), &tags)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", style.ID, style.Name, strings.Join(tags, ","), utils.Preview(style.Prompt, utils.PreviewLength))
	}
	_ = tw.Flush()
}

func printGalleries(w io.Writer, galleries []model.Gallery) {
	if len(galleries) == 0 {
		_, _ = fmt.Fprintln(w, "Gallery is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tEDITED\tTOKENS")
	for _, g := range galleries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", g.ID, g.CreatedAt.Format(time.RFC3339), g.Edited(), utils.FormatThousand(g.TotalTokens()))
	}
	_ = tw.Flush()
}

func printMessages(w io.Writer, messages []model.Message) {
	for _, m := range messages {
		_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", m.CreatedAt.Format(time.RFC3339), m.Role, m.Content)
	}
}

func printUsage(w io.Writer, period utils.Period, from, to time.Time, tokens int64, aiModel string) {
	_, _ = fmt.Fprintf(w, "%s %s - %s\ntokens: %s\nestimated cost (%s): $%.4f\n",
		period, from.Format(time.DateOnly), to.Add(-time.Second).Format(time.DateOnly),
		utils.FormatThousand(tokens), aiModel, model.EstimateCost(aiModel, tokens))
}

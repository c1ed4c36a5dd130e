package notion

import (
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/jonathan/prp-extractor/internal/types"
)

// maxBlocksPerCreate is Notion's per-request ceiling on children blocks.
// Content beyond it is dropped at page creation rather than split across
// multiple append requests.
const maxBlocksPerCreate = 100

// SourceInfo carries the video provenance rendered into the page body and
// properties.
type SourceInfo struct {
	PRPID        string
	URL          string
	VideoTitle   string
	ChannelTitle string
	CreatedBy    string
	TaskCount    int
	SyncStatus   types.SyncStatus
}

// buildPageBlocks renders a PRP document as the fixed, ordered Notion block
// sequence: title, description, video information, goal, rationale list,
// behavior, success-criteria checklist, then one sub-section per task.
func buildPageBlocks(content *types.PRPContent, src SourceInfo) []notionapi.Block {
	blocks := []notionapi.Block{
		heading1(content.Name),
		paragraph(content.Description),
		heading2("Video Information"),
		paragraph(fmt.Sprintf("Title: %s", src.VideoTitle)),
		paragraph(fmt.Sprintf("Channel: %s", src.ChannelTitle)),
		linkParagraph("Watch on YouTube", src.URL),
		heading2("Goal"),
		paragraph(content.Goal),
		heading2("Why"),
	}

	for _, why := range content.Why {
		blocks = append(blocks, bullet(why))
	}

	blocks = append(blocks,
		heading2("What"),
		paragraph(content.What),
		heading2("Success Criteria"),
	)
	for _, criterion := range content.SuccessCriteria {
		blocks = append(blocks, todo(criterion))
	}

	blocks = append(blocks, heading2("Tasks"))
	for i, task := range content.Tasks {
		blocks = append(blocks, heading3(fmt.Sprintf("%d. %s [%s]", i+1, task.Title, task.Type)))
		if task.Description != "" {
			blocks = append(blocks, paragraph(task.Description))
		}
		if task.FilePath != "" {
			blocks = append(blocks, callout(fmt.Sprintf("File: %s", task.FilePath)))
		}
		if task.Pseudocode != "" {
			blocks = append(blocks, code(task.Pseudocode))
		}
	}

	if len(blocks) > maxBlocksPerCreate {
		blocks = blocks[:maxBlocksPerCreate]
	}
	return blocks
}

// buildPageProperties assembles the fixed property set for a PRP page.
// The PRP ID property is the embedded identifier used for later lookup.
func buildPageProperties(content *types.PRPContent, src SourceInfo) notionapi.Properties {
	return notionapi.Properties{
		"Name":        notionapi.TitleProperty{Title: richText(content.Name)},
		"Source URL":  notionapi.URLProperty{URL: src.URL},
		"Video Title": notionapi.RichTextProperty{RichText: richText(src.VideoTitle)},
		"Channel":     notionapi.RichTextProperty{RichText: richText(src.ChannelTitle)},
		"Created By":  notionapi.RichTextProperty{RichText: richText(src.CreatedBy)},
		"PRP ID":      notionapi.RichTextProperty{RichText: richText(src.PRPID)},
		"Task Count":  notionapi.NumberProperty{Number: float64(src.TaskCount)},
		"Status":      notionapi.SelectProperty{Select: notionapi.Option{Name: statusLabel(src.SyncStatus)}},
	}
}

// PropertyPatch is the property subset a re-sync is allowed to update.
// Content blocks are never regenerated on update.
type PropertyPatch struct {
	Name       string
	VideoTitle string
	TaskCount  int
	SyncStatus types.SyncStatus
}

func buildPatchProperties(patch PropertyPatch) notionapi.Properties {
	return notionapi.Properties{
		"Name":        notionapi.TitleProperty{Title: richText(patch.Name)},
		"Video Title": notionapi.RichTextProperty{RichText: richText(patch.VideoTitle)},
		"Task Count":  notionapi.NumberProperty{Number: float64(patch.TaskCount)},
		"Status":      notionapi.SelectProperty{Select: notionapi.Option{Name: statusLabel(patch.SyncStatus)}},
	}
}

func statusLabel(s types.SyncStatus) string {
	switch s {
	case types.SyncStatusSynced:
		return "Synced"
	case types.SyncStatusFailed:
		return "Failed"
	case types.SyncStatusSyncing:
		return "Syncing"
	default:
		return "Not Synced"
	}
}

func richText(text string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: text}}}
}

func linkedText(text, url string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: text, Link: &notionapi.Link{Url: url}}}}
}

func basic(blockType notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: blockType}
}

func heading1(text string) notionapi.Block {
	return notionapi.Heading1Block{
		BasicBlock: basic(notionapi.BlockTypeHeading1),
		Heading1:   notionapi.Heading{RichText: richText(text)},
	}
}

func heading2(text string) notionapi.Block {
	return notionapi.Heading2Block{
		BasicBlock: basic(notionapi.BlockTypeHeading2),
		Heading2:   notionapi.Heading{RichText: richText(text)},
	}
}

func heading3(text string) notionapi.Block {
	return notionapi.Heading3Block{
		BasicBlock: basic(notionapi.BlockTypeHeading3),
		Heading3:   notionapi.Heading{RichText: richText(text)},
	}
}

func paragraph(text string) notionapi.Block {
	return notionapi.ParagraphBlock{
		BasicBlock: basic(notionapi.BlockTypeParagraph),
		Paragraph:  notionapi.Paragraph{RichText: richText(text)},
	}
}

func linkParagraph(text, url string) notionapi.Block {
	return notionapi.ParagraphBlock{
		BasicBlock: basic(notionapi.BlockTypeParagraph),
		Paragraph:  notionapi.Paragraph{RichText: linkedText(text, url)},
	}
}

func bullet(text string) notionapi.Block {
	return notionapi.BulletedListItemBlock{
		BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
		BulletedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

func todo(text string) notionapi.Block {
	return notionapi.ToDoBlock{
		BasicBlock: basic(notionapi.BlockTypeToDo),
		ToDo:       notionapi.ToDo{RichText: richText(text), Checked: false},
	}
}

func callout(text string) notionapi.Block {
	emoji := notionapi.Emoji("📄")
	return notionapi.CalloutBlock{
		BasicBlock: basic(notionapi.BlockTypeCallout),
		Callout: notionapi.Callout{
			RichText: richText(text),
			Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
		},
	}
}

func code(text string) notionapi.Block {
	return notionapi.CodeBlock{
		BasicBlock: basic(notionapi.BlockTypeCode),
		Code:       notionapi.Code{RichText: richText(text), Language: "plain text"},
	}
}

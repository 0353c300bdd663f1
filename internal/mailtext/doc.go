// Package mailtext shrinks raw email into the text worth sending to a
// language model: BodyOnly drops headers and attachments, StripTags drops
// markup that carries no content.
package mailtext
